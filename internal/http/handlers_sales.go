package http

import (
	"encoding/json"
	"net/http"

	"github.com/Adnan1921/radnja-tracker/internal/core"
	"github.com/Adnan1921/radnja-tracker/internal/ledger"
)

func (s *Server) handleListItems(w http.ResponseWriter, r *http.Request) {
	writeJSON(r.Context(), w, http.StatusOK, s.catalog.Items())
}

type createSaleRequest struct {
	ItemID        int    `json:"itemId"`
	UnitPrice     string `json:"unitPrice"`
	Quantity      *int   `json:"quantity"`
	PaymentMethod string `json:"paymentMethod"`
	Date          string `json:"date"`
	Time          string `json:"time"`
}

func (s *Server) handleCreateSale(w http.ResponseWriter, r *http.Request) {
	var req createSaleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(r.Context(), w, http.StatusBadRequest, "invalid request body")
		return
	}

	// Absent quantity means one item; an explicit zero is rejected later.
	quantity := 1
	if req.Quantity != nil {
		quantity = *req.Quantity
	}

	sale, err := s.ledger.RecordSale(r.Context(), identityFrom(r.Context()), ledger.SaleInput{
		ItemID:        req.ItemID,
		UnitPrice:     req.UnitPrice,
		Quantity:      quantity,
		PaymentMethod: req.PaymentMethod,
		Date:          req.Date,
		Time:          req.Time,
	})
	if err != nil {
		writeDomainError(r.Context(), w, err)
		return
	}

	writeJSON(r.Context(), w, http.StatusCreated, sale)
}

type createLumpRequest struct {
	Amount        string `json:"amount"`
	PaymentMethod string `json:"paymentMethod"`
	Date          string `json:"date"`
}

func (s *Server) handleCreateLumpTotal(w http.ResponseWriter, r *http.Request) {
	var req createLumpRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(r.Context(), w, http.StatusBadRequest, "invalid request body")
		return
	}

	sale, err := s.ledger.RecordLumpTotal(r.Context(), identityFrom(r.Context()), ledger.LumpInput{
		Amount:        req.Amount,
		PaymentMethod: req.PaymentMethod,
		Date:          req.Date,
	})
	if err != nil {
		writeDomainError(r.Context(), w, err)
		return
	}

	writeJSON(r.Context(), w, http.StatusCreated, sale)
}

func (s *Server) handleListSales(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	sales, err := s.ledger.ListByDate(r.Context(), identityFrom(r.Context()), date)
	if err != nil {
		writeDomainError(r.Context(), w, err)
		return
	}
	if sales == nil {
		sales = []core.Sale{}
	}
	writeJSON(r.Context(), w, http.StatusOK, sales)
}

func (s *Server) handleDeleteSale(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := s.ledger.Delete(r.Context(), identityFrom(r.Context()), id); err != nil {
		writeDomainError(r.Context(), w, err)
		return
	}
	writeJSON(r.Context(), w, http.StatusOK, map[string]bool{"deleted": true})
}
