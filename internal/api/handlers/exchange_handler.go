package handlers

import (
	"bank-ledger/internal/api/middlew"
	"bank-ledger/internal/custom_err"
	"bank-ledger/internal/models"
	"bank-ledger/pkg/response"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
)

// Exchange is the run's rate snapshot.
type Exchange interface {
	Rates() []models.ExchangeRate
	Convert(amount float64, from, to models.Currency) (float64, error)
}

type ConvertResponse struct {
	From      models.Currency `json:"from"`
	To        models.Currency `json:"to"`
	Amount    float64         `json:"amount"`
	Converted float64         `json:"converted"`
}

type ExchangeHandler struct {
	service Exchange
}

func NewExchangeHandler(service Exchange) *ExchangeHandler {
	return &ExchangeHandler{
		service: service,
	}
}

func (h *ExchangeHandler) GetExchangeRates(w http.ResponseWriter, r *http.Request) {
	log := middlew.GetLogger(r.Context())
	response.WriteJSONSuccess(w, log, http.StatusOK, h.service.Rates())
}

func (h *ExchangeHandler) Convert(w http.ResponseWriter, r *http.Request) {
	const op = "handler.Convert"
	log := middlew.GetLogger(r.Context())

	q := r.URL.Query()
	from := models.Currency(q.Get("from"))
	to := models.Currency(q.Get("to"))
	if !from.IsValid() || !to.IsValid() {
		log.Warn("invalid currency", slog.String("op", op), slog.String("from", string(from)), slog.String("to", string(to)))
		response.WriteJSONError(w, log, http.StatusBadRequest, "invalid_currency", "Invalid currencies")
		return
	}

	amount, err := strconv.ParseFloat(q.Get("amount"), 64)
	if err != nil || amount <= 0 {
		log.Warn("invalid amount", slog.String("op", op), slog.String("amount", q.Get("amount")))
		response.WriteJSONError(w, log, http.StatusBadRequest, "invalid_amount", "Invalid amount")
		return
	}

	converted, err := h.service.Convert(amount, from, to)
	if err != nil {
		switch {
		case errors.Is(err, custom_err.ErrConversionUnsupported):
			log.Info("conversion unsupported", slog.String("op", op))
			response.WriteJSONError(w, log, http.StatusNotFound, "conversion_unsupported", "No exchange path between currencies")
		default:
			log.Error("failed to convert", slog.String("op", op), slog.String("error", err.Error()))
			response.WriteJSONError(w, log, http.StatusInternalServerError, "internal_error", "An internal error occurred")
		}
		return
	}

	response.WriteJSONSuccess(w, log, http.StatusOK, ConvertResponse{
		From:      from,
		To:        to,
		Amount:    amount,
		Converted: converted,
	})
}
