package server

import (
	"net/http"
	"strconv"
	"time"

	"adsbot/domain"
	"adsbot/domain/entities"
	"adsbot/domain/interfaces"
	"adsbot/server/middleware"

	"github.com/go-chi/chi/v5"
	log "github.com/sirupsen/logrus"
)

func (s *Server) handleConductDraw(w http.ResponseWriter, r *http.Request) {
	identity, _ := middleware.IdentityFromContext(r.Context())

	var req struct {
		Period string `json:"period"`
	}
	if err := decodeBody(r, &req); err != nil {
		respondError(w, r, err)
		return
	}
	if req.Period == "" {
		req.Period = entities.PreviousPeriod(time.Now())
	}

	var draw *entities.LotteryDraw
	err := s.withUnitOfWork(r.Context(), func(uow interfaces.UnitOfWork) error {
		lottery := s.lotteryService(uow)
		var err error
		draw, err = lottery.ConductDraw(r.Context(), req.Period)
		return err
	})
	if err != nil {
		respondError(w, r, err)
		return
	}

	log.WithFields(log.Fields{
		"admin":  identity.ExternalID,
		"period": draw.Period,
	}).Info("draw conducted by admin")

	respondJSON(w, http.StatusCreated, toDrawResponse(draw))
}

func (s *Server) handleListPendingWithdrawals(w http.ResponseWriter, r *http.Request) {
	var withdrawals []*entities.Withdrawal
	err := s.withUnitOfWork(r.Context(), func(uow interfaces.UnitOfWork) error {
		svc := s.withdrawalService(uow)
		var err error
		withdrawals, err = svc.ListPending(r.Context())
		return err
	})
	if err != nil {
		respondError(w, r, err)
		return
	}

	type pendingItem struct {
		withdrawalResponse
		AccountID int64 `json:"account_id"`
	}
	items := make([]pendingItem, 0, len(withdrawals))
	for _, wd := range withdrawals {
		items = append(items, pendingItem{
			withdrawalResponse: toWithdrawalResponse(wd),
			AccountID:          wd.AccountID,
		})
	}
	respondJSON(w, http.StatusOK, map[string]any{"withdrawals": items})
}

func (s *Server) handleApproveWithdrawal(w http.ResponseWriter, r *http.Request) {
	identity, _ := middleware.IdentityFromContext(r.Context())

	id, err := withdrawalIDParam(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	var withdrawal *entities.Withdrawal
	err = s.withUnitOfWork(r.Context(), func(uow interfaces.UnitOfWork) error {
		svc := s.withdrawalService(uow)
		var err error
		withdrawal, err = svc.Approve(r.Context(), id)
		return err
	})
	if err != nil {
		respondError(w, r, err)
		return
	}

	log.WithFields(log.Fields{
		"admin":      identity.ExternalID,
		"withdrawal": withdrawal.ID,
	}).Info("withdrawal approved")

	respondJSON(w, http.StatusOK, toWithdrawalResponse(withdrawal))
}

func (s *Server) handleRejectWithdrawal(w http.ResponseWriter, r *http.Request) {
	identity, _ := middleware.IdentityFromContext(r.Context())

	id, err := withdrawalIDParam(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	var req struct {
		Reason string `json:"reason"`
	}
	if err := decodeBody(r, &req); err != nil {
		respondError(w, r, err)
		return
	}

	var withdrawal *entities.Withdrawal
	err = s.withUnitOfWork(r.Context(), func(uow interfaces.UnitOfWork) error {
		svc := s.withdrawalService(uow)
		var err error
		withdrawal, err = svc.Reject(r.Context(), id, req.Reason)
		return err
	})
	if err != nil {
		respondError(w, r, err)
		return
	}

	log.WithFields(log.Fields{
		"admin":      identity.ExternalID,
		"withdrawal": withdrawal.ID,
		"reason":     req.Reason,
	}).Info("withdrawal rejected")

	respondJSON(w, http.StatusOK, toWithdrawalResponse(withdrawal))
}

func withdrawalIDParam(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, domain.NewValidationError("id", "must be a positive integer")
	}
	return id, nil
}
