package access

import "testing"

func TestReadScope(t *testing.T) {
	var p Policy

	admin := Identity{Username: "SanelaBiber", Role: RoleAdmin}
	if got := p.ReadScope(admin); got != "" {
		t.Errorf("admin read scope = %q, want unrestricted", got)
	}

	limited := Identity{Username: "Sajra", Role: RoleLimited}
	if got := p.ReadScope(limited); got != "Sajra" {
		t.Errorf("limited read scope = %q, want own username", got)
	}
}

func TestDeleteScope(t *testing.T) {
	var p Policy

	if got := p.DeleteScope(Identity{Username: "HarisBiber", Role: RoleAdmin}); got != "" {
		t.Errorf("admin delete scope = %q, want unrestricted", got)
	}
	if got := p.DeleteScope(Identity{Username: "Sajra", Role: RoleLimited}); got != "Sajra" {
		t.Errorf("limited delete scope = %q, want own username", got)
	}
}

func TestCanCreate(t *testing.T) {
	var p Policy

	if !p.CanCreate(Identity{Username: "Sajra", Role: RoleLimited}) {
		t.Error("limited users may record sales")
	}
	if !p.CanCreate(Identity{Username: "SanelaBiber", Role: RoleAdmin}) {
		t.Error("admins may record sales")
	}
	if p.CanCreate(Identity{Username: "ghost", Role: "visitor"}) {
		t.Error("unknown roles may not record sales")
	}
}

func TestRoleValid(t *testing.T) {
	if !RoleAdmin.Valid() || !RoleLimited.Valid() {
		t.Error("known roles must be valid")
	}
	if Role("superuser").Valid() {
		t.Error("unknown role must be invalid")
	}
}
