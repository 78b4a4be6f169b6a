package ledger

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Adnan1921/radnja-tracker/internal/access"
	"github.com/Adnan1921/radnja-tracker/internal/catalog"
	"github.com/Adnan1921/radnja-tracker/internal/core"
	applog "github.com/Adnan1921/radnja-tracker/internal/log"
	"github.com/Adnan1921/radnja-tracker/internal/stats"
)

// Service is the ledger's entry point. Every read and delete consults the
// access policy before touching the store, so role visibility cannot be
// bypassed by a handler forgetting a check.
type Service struct {
	store   Store
	catalog *catalog.Catalog
	policy  access.Policy
	events  Publisher // nil when the backup pipeline is disabled
	loc     *time.Location
	now     func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithPublisher attaches the backup event publisher.
func WithPublisher(p Publisher) Option {
	return func(s *Service) { s.events = p }
}

// WithNow overrides the clock, used by tests to pin "today".
func WithNow(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService builds a ledger service. loc is the shop timezone used to
// decide what "today" means for date validation and for clock display times.
func NewService(store Store, cat *catalog.Catalog, loc *time.Location, opts ...Option) *Service {
	s := &Service{
		store:   store,
		catalog: cat,
		loc:     loc,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SaleInput is the raw create-sale request. UnitPrice arrives as the raw
// decimal string so parsing and range checking happen in one place.
type SaleInput struct {
	ItemID        int
	UnitPrice     string
	Quantity      int // callers default an absent quantity to 1
	PaymentMethod string
	Date          string
	Time          string // optional display time
}

// LumpInput is the raw lump-daily-takings request.
type LumpInput struct {
	Amount        string
	PaymentMethod string
	Date          string
}

// RecordSale validates the input and persists one sale. Validation runs to
// completion before any store mutation, so partial writes cannot happen.
// Resubmitting the same input creates a duplicate record; creation is not
// idempotent.
func (s *Service) RecordSale(ctx context.Context, actor access.Identity, in SaleInput) (core.Sale, error) {
	if !s.policy.CanCreate(actor) {
		return core.Sale{}, core.ErrNotPermitted
	}

	if in.ItemID == core.LumpItemID {
		// The sentinel is reserved for RecordLumpTotal.
		return core.Sale{}, core.Invalid("unknown item")
	}
	item, ok := s.catalog.ByID(in.ItemID)
	if !ok {
		return core.Sale{}, core.Invalid("unknown item")
	}

	unit, err := core.ParsePrice(in.UnitPrice)
	if err != nil {
		return core.Sale{}, err
	}
	if err := core.ValidateQuantity(in.Quantity); err != nil {
		return core.Sale{}, err
	}
	method, err := core.ParsePaymentMethod(in.PaymentMethod)
	if err != nil {
		return core.Sale{}, err
	}
	date, err := core.ValidateDate(in.Date, s.today())
	if err != nil {
		return core.Sale{}, err
	}
	total := unit.Mul(in.Quantity)
	if err := core.ValidateTotal(total); err != nil {
		return core.Sale{}, err
	}

	sale := core.Sale{
		ID:            uuid.NewString(),
		ItemID:        item.ID,
		ItemName:      item.Name,
		ItemIcon:      item.Icon,
		UnitPrice:     unit,
		Quantity:      in.Quantity,
		Total:         total,
		PaymentMethod: method,
		Date:          date,
		Time:          s.displayTime(in.Time, date),
		RecordedBy:    actor.Username,
		CreatedAt:     s.now(),
	}

	if err := s.store.Insert(ctx, sale); err != nil {
		return core.Sale{}, err
	}

	s.publishRecorded(ctx, sale.ID)
	return sale, nil
}

// RecordLumpTotal persists a lump daily takings record under the reserved
// sentinel item.
func (s *Service) RecordLumpTotal(ctx context.Context, actor access.Identity, in LumpInput) (core.Sale, error) {
	if !s.policy.CanCreate(actor) {
		return core.Sale{}, core.ErrNotPermitted
	}

	amount, err := core.ParsePrice(in.Amount)
	if err != nil {
		return core.Sale{}, err
	}
	method, err := core.ParsePaymentMethod(in.PaymentMethod)
	if err != nil {
		return core.Sale{}, err
	}
	date, err := core.ValidateDate(in.Date, s.today())
	if err != nil {
		return core.Sale{}, err
	}

	lump, _ := s.catalog.ByID(core.LumpItemID)
	sale := core.Sale{
		ID:            uuid.NewString(),
		ItemID:        lump.ID,
		ItemName:      lump.Name,
		ItemIcon:      lump.Icon,
		UnitPrice:     amount,
		Quantity:      1,
		Total:         amount,
		PaymentMethod: method,
		Date:          date,
		Time:          core.TimeManualTotal,
		RecordedBy:    actor.Username,
		CreatedAt:     s.now(),
		IsLumpTotal:   true,
	}

	if err := s.store.Insert(ctx, sale); err != nil {
		return core.Sale{}, err
	}

	s.publishRecorded(ctx, sale.ID)
	return sale, nil
}

// ListByDate returns the actor-visible sales of one date, newest first.
func (s *Service) ListByDate(ctx context.Context, actor access.Identity, date string) ([]core.Sale, error) {
	date, err := canonicalDate(date)
	if err != nil {
		return nil, err
	}
	return s.store.FindByDate(ctx, date, s.policy.ReadScope(actor))
}

// DailyStats recomputes the one-day rollup from the actor-visible records.
func (s *Service) DailyStats(ctx context.Context, actor access.Identity, date string) (stats.DaySummary, error) {
	date, err := canonicalDate(date)
	if err != nil {
		return stats.DaySummary{}, err
	}
	sales, err := s.store.FindByDate(ctx, date, s.policy.ReadScope(actor))
	if err != nil {
		return stats.DaySummary{}, err
	}
	return stats.Daily(date, sales), nil
}

// MonthlyStats recomputes the one-month rollup from the actor-visible
// records. Year and month are constrained to a sane range.
func (s *Service) MonthlyStats(ctx context.Context, actor access.Identity, year, month int) (stats.MonthSummary, error) {
	if err := validateYearMonth(year, month); err != nil {
		return stats.MonthSummary{}, err
	}
	sales, err := s.store.FindByMonth(ctx, year, month, s.policy.ReadScope(actor))
	if err != nil {
		return stats.MonthSummary{}, err
	}
	return stats.Monthly(year, month, sales), nil
}

// MonthlySales returns the actor-visible records of one month together with
// their rollup, for the report export.
func (s *Service) MonthlySales(ctx context.Context, actor access.Identity, year, month int) ([]core.Sale, stats.MonthSummary, error) {
	if err := validateYearMonth(year, month); err != nil {
		return nil, stats.MonthSummary{}, err
	}
	sales, err := s.store.FindByMonth(ctx, year, month, s.policy.ReadScope(actor))
	if err != nil {
		return nil, stats.MonthSummary{}, err
	}
	return sales, stats.Monthly(year, month, sales), nil
}

// Delete removes one sale if the actor is allowed to. "Not found" and
// "found but not yours" both come back as core.ErrNotPermitted so the
// response leaks nothing about other users' records.
func (s *Service) Delete(ctx context.Context, actor access.Identity, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return core.ErrNotPermitted
	}

	// Snapshot for the reversal event; the row is gone after the delete.
	// Failure here is fine, the event is then published without details.
	snapshot, snapErr := s.store.GetByID(ctx, id)

	deleted, err := s.store.DeleteByID(ctx, id, s.policy.DeleteScope(actor))
	if err != nil {
		return err
	}
	if !deleted {
		return core.ErrNotPermitted
	}

	if s.events != nil {
		var date, itemName, recordedBy string
		var totalCents int64
		if snapErr == nil {
			date, itemName, recordedBy = snapshot.Date, snapshot.ItemName, snapshot.RecordedBy
			totalCents = snapshot.Total.Cents
		}
		if err := s.events.PublishSaleDeleted(ctx, id, date, itemName, recordedBy, totalCents); err != nil {
			slog.ErrorContext(ctx, "Failed to publish sale deleted event", applog.FieldSaleID, id, applog.FieldError, err)
		}
	}
	return nil
}

func (s *Service) publishRecorded(ctx context.Context, id string) {
	if s.events == nil {
		return
	}
	if err := s.events.PublishSaleRecorded(ctx, id); err != nil {
		slog.ErrorContext(ctx, "Failed to publish sale recorded event", applog.FieldSaleID, id, applog.FieldError, err)
	}
}

// displayTime picks the time string stored with a sale: a caller-supplied
// display value wins, a same-day entry gets the shop clock, anything older
// is marked backdated.
func (s *Service) displayTime(supplied, date string) string {
	if t := strings.TrimSpace(supplied); t != "" {
		if len(t) > 20 {
			t = t[:20]
		}
		return t
	}
	if date == s.today() {
		return s.now().In(s.loc).Format("15:04")
	}
	return core.TimeBackdated
}

func (s *Service) today() string {
	return core.Today(s.now(), s.loc)
}

func canonicalDate(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	t, err := time.Parse(core.DateLayout, raw)
	if err != nil || t.Format(core.DateLayout) != raw {
		return "", core.Invalid("invalid date")
	}
	return raw, nil
}

func validateYearMonth(year, month int) error {
	if year < 2020 || year > 2100 {
		return core.Invalid("year out of range")
	}
	if month < 1 || month > 12 {
		return core.Invalid("month out of range")
	}
	return nil
}
