package handlers

import (
	"bank-ledger/internal/api/middlew"
	"bank-ledger/internal/custom_err"
	"bank-ledger/internal/models"
	"bank-ledger/internal/render"
	"bank-ledger/internal/service"
	"bank-ledger/pkg/response"
	"errors"
	"log/slog"
	"math"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

// Reports is the read side of a finished run.
type Reports interface {
	Users() []*models.User
	Transactions(email string) ([]models.Transaction, error)
	Report(iban string, start, end int64) (*service.AccountReport, error)
	SpendingsReport(iban string, start, end int64) (*service.SpendingsReport, error)
	PendingProposals() []service.ProposalView
}

type ReportHandler struct {
	reports Reports
}

func NewReportHandler(reports Reports) *ReportHandler {
	return &ReportHandler{
		reports: reports,
	}
}

func (h *ReportHandler) GetUsers(w http.ResponseWriter, r *http.Request) {
	log := middlew.GetLogger(r.Context())
	response.WriteJSONSuccess(w, log, http.StatusOK, render.Users(h.reports.Users()))
}

func (h *ReportHandler) GetTransactions(w http.ResponseWriter, r *http.Request) {
	const op = "handler.GetTransactions"
	log := middlew.GetLogger(r.Context())

	email := chi.URLParam(r, "email")
	txs, err := h.reports.Transactions(email)
	if err != nil {
		writeReportError(w, log, op, err)
		return
	}

	response.WriteJSONSuccess(w, log, http.StatusOK, render.Transactions(txs))
}

func (h *ReportHandler) GetReport(w http.ResponseWriter, r *http.Request) {
	const op = "handler.GetReport"
	log := middlew.GetLogger(r.Context())

	start, end, ok := parseWindow(w, r, log, op)
	if !ok {
		return
	}

	rep, err := h.reports.Report(chi.URLParam(r, "iban"), start, end)
	if err != nil {
		writeReportError(w, log, op, err)
		return
	}

	response.WriteJSONSuccess(w, log, http.StatusOK, render.Report(rep))
}

func (h *ReportHandler) GetSpendings(w http.ResponseWriter, r *http.Request) {
	const op = "handler.GetSpendings"
	log := middlew.GetLogger(r.Context())

	start, end, ok := parseWindow(w, r, log, op)
	if !ok {
		return
	}

	rep, err := h.reports.SpendingsReport(chi.URLParam(r, "iban"), start, end)
	if err != nil {
		writeReportError(w, log, op, err)
		return
	}

	response.WriteJSONSuccess(w, log, http.StatusOK, render.Spendings(rep))
}

func (h *ReportHandler) GetProposals(w http.ResponseWriter, r *http.Request) {
	log := middlew.GetLogger(r.Context())
	response.WriteJSONSuccess(w, log, http.StatusOK, render.Proposals(h.reports.PendingProposals()))
}

// parseWindow reads the optional start and end query parameters. A missing
// bound leaves that side of the window open.
func parseWindow(w http.ResponseWriter, r *http.Request, log *slog.Logger, op string) (start, end int64, ok bool) {
	start, end = 0, math.MaxInt64

	q := r.URL.Query()
	for name, dst := range map[string]*int64{"start": &start, "end": &end} {
		raw := q.Get(name)
		if raw == "" {
			continue
		}
		v, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			log.Warn("invalid query parameter", slog.String("op", op), slog.String(name, raw))
			response.WriteJSONError(w, log, http.StatusBadRequest, "invalid_request", "Invalid "+name+" timestamp")
			return 0, 0, false
		}
		*dst = v
	}

	if start > end {
		response.WriteJSONError(w, log, http.StatusBadRequest, "invalid_request", "start must not be after end")
		return 0, 0, false
	}
	return start, end, true
}

func writeReportError(w http.ResponseWriter, log *slog.Logger, op string, err error) {
	switch {
	case errors.Is(err, custom_err.ErrUserNotFound):
		log.Info("user not found", slog.String("op", op))
		response.WriteJSONError(w, log, http.StatusNotFound, "not_found", "User not found")
	case errors.Is(err, custom_err.ErrAccountNotFound):
		log.Info("account not found", slog.String("op", op))
		response.WriteJSONError(w, log, http.StatusNotFound, "not_found", "Account not found")
	case errors.Is(err, custom_err.ErrUnsupportedReport):
		response.WriteJSONError(w, log, http.StatusUnprocessableEntity, "unsupported_report",
			"This kind of report is not supported for a saving account")
	default:
		log.Error("failed to build report", slog.String("op", op), slog.String("error", err.Error()))
		response.WriteJSONError(w, log, http.StatusInternalServerError, "internal_error", "An internal error occurred")
	}
}
