package http

import (
	"net/http"

	"terapis/internal/core"
	applog "terapis/internal/log"
)

// transactionView is the wire form of a transaction, including the derived
// commission.
type transactionView struct {
	ID              string     `json:"id"`
	Date            string     `json:"date"`
	DateText        string     `json:"dateText"`
	Therapist       string     `json:"therapist"`
	Shift           string     `json:"shift"`
	GuestName       string     `json:"guestName"`
	TreatmentType   string     `json:"treatmentType"`
	DurationMinutes int        `json:"durationMinutes"`
	Room            string     `json:"room"`
	Report          string     `json:"report"`
	Nominal         core.Money `json:"nominal"`
	NominalText     string     `json:"nominalText"`
	Commission      core.Money `json:"commission"`
	CommissionText  string     `json:"commissionText"`
}

func (s *Server) viewOf(t core.Transaction) transactionView {
	return transactionView{
		ID:              t.ID,
		Date:            t.Date.String(),
		DateText:        core.FormatDate(t.Date, s.locale),
		Therapist:       t.Therapist,
		Shift:           t.Shift,
		GuestName:       t.GuestName,
		TreatmentType:   t.TreatmentType,
		DurationMinutes: t.DurationMinutes,
		Room:            t.Room,
		Report:          t.Report,
		Nominal:         t.Nominal,
		NominalText:     core.FormatRupiah(t.Nominal),
		Commission:      t.Commission(),
		CommissionText:  core.FormatRupiah(t.Commission()),
	}
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	items := s.tx.List(r.Context())
	out := make([]transactionView, 0, len(items))
	for _, t := range items {
		out = append(out, s.viewOf(t))
	}
	NewResponse().JSON(map[string]any{
		"dateMode":     s.tx.DateMode().String(),
		"transactions": out,
	}).Write(w)
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	in, ok := parseTransactionInput(w, r)
	if !ok {
		return
	}

	t, err := s.tx.Add(r.Context(), in)
	if err != nil {
		s.logFailure(r, "Create transaction failed", err, applog.OpCreate)
		errorResponse(err).Write(w)
		return
	}
	s.logs.LogTransactionSaved(r.Context(), applog.OpCreate, t.ID, t.Therapist, t.Shift, t.Nominal.String())
	NewResponse().Status(http.StatusCreated).
		Header("Location", "/api/transactions/"+t.ID).
		JSON(s.viewOf(t)).
		Write(w)
}

// handleBeginEdit returns the stored record as entry-form values without
// changing anything.
func (s *Server) handleBeginEdit(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	in, err := s.tx.BeginEdit(r.Context(), id)
	if err != nil {
		errorResponse(err).Write(w)
		return
	}
	NewResponse().JSON(map[string]any{"id": id, "input": in}).Write(w)
}

func (s *Server) handleUpdateTransaction(w http.ResponseWriter, r *http.Request) {
	in, ok := parseTransactionInput(w, r)
	if !ok {
		return
	}

	t, err := s.tx.Update(r.Context(), r.PathValue("id"), in)
	if err != nil {
		s.logFailure(r, "Update transaction failed", err, applog.OpUpdate)
		errorResponse(err).Write(w)
		return
	}
	s.logs.LogTransactionSaved(r.Context(), applog.OpUpdate, t.ID, t.Therapist, t.Shift, t.Nominal.String())
	NewResponse().JSON(s.viewOf(t)).Write(w)
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	if err := s.tx.Delete(r.Context(), r.PathValue("id")); err != nil {
		s.logFailure(r, "Delete transaction failed", err, applog.OpDelete)
		errorResponse(err).Write(w)
		return
	}
	NewResponse().Status(http.StatusNoContent).Write(w)
}

func parseTransactionInput(w http.ResponseWriter, r *http.Request) (core.TransactionInput, bool) {
	p := NewRequestBodyParser(r)
	if err := p.Parse(); err != nil {
		BadRequestError("invalid request body").Write(w)
		return core.TransactionInput{}, false
	}
	return p.TransactionInput(), true
}

func (s *Server) logFailure(r *http.Request, msg string, err error, op string) {
	s.logs.LogError(r.Context(), msg, err, applog.ComponentTransaction, op,
		applog.NewFields().WithErrorType(errorType(err)))
}
