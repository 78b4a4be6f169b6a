package http

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/Adnan1921/radnja-tracker/internal/core"
	"github.com/Adnan1921/radnja-tracker/internal/report"
)

func (s *Server) handleDailyStats(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	summary, err := s.ledger.DailyStats(r.Context(), identityFrom(r.Context()), date)
	if err != nil {
		writeDomainError(r.Context(), w, err)
		return
	}
	writeJSON(r.Context(), w, http.StatusOK, summary)
}

func (s *Server) handleMonthlyStats(w http.ResponseWriter, r *http.Request) {
	year, month, err := parseYearMonth(r)
	if err != nil {
		writeDomainError(r.Context(), w, err)
		return
	}
	summary, err := s.ledger.MonthlyStats(r.Context(), identityFrom(r.Context()), year, month)
	if err != nil {
		writeDomainError(r.Context(), w, err)
		return
	}
	writeJSON(r.Context(), w, http.StatusOK, summary)
}

func (s *Server) handleMonthlyReport(w http.ResponseWriter, r *http.Request) {
	year, month, err := parseYearMonth(r)
	if err != nil {
		writeDomainError(r.Context(), w, err)
		return
	}
	sales, summary, err := s.ledger.MonthlySales(r.Context(), identityFrom(r.Context()), year, month)
	if err != nil {
		writeDomainError(r.Context(), w, err)
		return
	}

	data, err := report.MonthlyWorkbook(sales, summary)
	if err != nil {
		writeDomainError(r.Context(), w, err)
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", report.Filename(year, month)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// parseYearMonth extracts year and month from query parameters, defaulting
// to the current month. A supplied non-numeric value is rejected rather
// than silently replaced.
func parseYearMonth(r *http.Request) (year, month int, err error) {
	now := time.Now()
	year = now.Year()
	month = int(now.Month())

	if v := strings.TrimSpace(r.URL.Query().Get("year")); v != "" {
		year, err = strconv.Atoi(v)
		if err != nil {
			return 0, 0, core.Invalid("invalid year")
		}
	}
	if v := strings.TrimSpace(r.URL.Query().Get("month")); v != "" {
		month, err = strconv.Atoi(v)
		if err != nil {
			return 0, 0, core.Invalid("invalid month")
		}
	}

	return year, month, nil
}
