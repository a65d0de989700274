package server

import (
	"fmt"
	"net/http"
	"time"

	"adsbot/domain"
	"adsbot/domain/entities"
	"adsbot/domain/interfaces"
	"adsbot/domain/services"
	"adsbot/server/middleware"

	"github.com/go-chi/chi/v5"
	log "github.com/sirupsen/logrus"
)

type accountResponse struct {
	ID         int64     `json:"id"`
	ExternalID string    `json:"external_id"`
	Username   string    `json:"username"`
	Balance    int64     `json:"balance"`
	Referred   bool      `json:"referred"`
	CreatedAt  time.Time `json:"created_at"`
}

func toAccountResponse(a *entities.Account) accountResponse {
	return accountResponse{
		ID:         a.ID,
		ExternalID: a.ExternalID,
		Username:   a.Username,
		Balance:    a.Balance,
		Referred:   a.IsReferred(),
		CreatedAt:  a.CreatedAt,
	}
}

type withdrawalResponse struct {
	ID            int64     `json:"id"`
	Tokens        int64     `json:"tokens"`
	PointsDebited int64     `json:"points_debited"`
	Address       *string   `json:"address,omitempty"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func toWithdrawalResponse(w *entities.Withdrawal) withdrawalResponse {
	return withdrawalResponse{
		ID:            w.ID,
		Tokens:        w.Tokens,
		PointsDebited: w.PointsDebited,
		Address:       w.Address,
		Status:        w.Status.String(),
		CreatedAt:     w.CreatedAt,
		UpdatedAt:     w.UpdatedAt,
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := s.db.Pool.Ping(r.Context()); err != nil {
		log.WithError(err).Error("health check db ping failed")
		respondJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		InitData string `json:"init_data"`
	}
	if err := decodeBody(r, &req); err != nil {
		respondError(w, r, err)
		return
	}
	if req.InitData == "" {
		respondError(w, r, domain.NewValidationError("init_data", "is required"))
		return
	}

	user, err := middleware.ValidateInitData(s.cfg.BotToken, req.InitData)
	if err != nil {
		log.WithError(err).Debug("rejected login init data")
		respondJSON(w, http.StatusUnauthorized, errorResponse{Error: "invalid init data"})
		return
	}

	externalID := fmt.Sprintf("%d", user.ID)

	var account *entities.Account
	err = s.withUnitOfWork(r.Context(), func(uow interfaces.UnitOfWork) error {
		referrals := s.referralService(uow)
		account, err = referrals.GetOrCreateAccount(r.Context(), externalID, user.DisplayName())
		return err
	})
	if err != nil {
		respondError(w, r, err)
		return
	}

	token, err := middleware.IssueToken(s.cfg.JWTSecret, account.ID, account.ExternalID, account.Username)
	if err != nil {
		respondError(w, r, fmt.Errorf("failed to issue token: %w", err))
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"token":   token,
		"account": toAccountResponse(account),
	})
}

func (s *Server) handleBalance(w http.ResponseWriter, r *http.Request) {
	identity, _ := middleware.IdentityFromContext(r.Context())

	var (
		account       *entities.Account
		referralCount int64
		totalTickets  int64
	)
	err := s.withUnitOfWork(r.Context(), func(uow interfaces.UnitOfWork) error {
		var err error
		account, err = uow.AccountRepository().GetByID(r.Context(), identity.AccountID)
		if err != nil {
			return err
		}
		if account == nil {
			return domain.ErrNotFound
		}
		referralCount, err = uow.ReferralRepository().CountByInviter(r.Context(), identity.AccountID)
		if err != nil {
			return err
		}
		totalTickets, err = uow.LotteryTicketRepository().TotalTicketsByAccount(r.Context(), identity.AccountID)
		return err
	})
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"account":     toAccountResponse(account),
		"referrals":   referralCount,
		"tickets":     totalTickets,
		"invite_link": fmt.Sprintf("https://t.me/%s?start=%s", s.cfg.BotUsername, account.ExternalID),
	})
}

func (s *Server) handleAdView(w http.ResponseWriter, r *http.Request) {
	identity, _ := middleware.IdentityFromContext(r.Context())
	adType := chi.URLParam(r, "type")

	var result *interfaces.AdCreditResult
	err := s.withUnitOfWork(r.Context(), func(uow interfaces.UnitOfWork) error {
		adViews := services.NewAdViewService(uow.AccountRepository(), uow.LedgerEventRepository(), s.ledgerService(uow))
		var err error
		result, err = adViews.CreditAdView(r.Context(), identity.AccountID, adType)
		return err
	})
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"points_added":      result.PointsAdded,
		"balance":           result.NewBalance,
		"daily_ads_watched": result.DailyAdsWatched,
		"daily_ad_limit":    services.DailyAdCap,
	})
}

func (s *Server) handleCompleteTask(w http.ResponseWriter, r *http.Request) {
	identity, _ := middleware.IdentityFromContext(r.Context())

	var req struct {
		TaskID string `json:"task_id"`
	}
	if err := decodeBody(r, &req); err != nil {
		respondError(w, r, err)
		return
	}

	var newBalance int64
	err := s.withUnitOfWork(r.Context(), func(uow interfaces.UnitOfWork) error {
		tasks := services.NewTaskService(uow.AccountRepository(), uow.LedgerEventRepository(), s.ledgerService(uow))
		var err error
		newBalance, err = tasks.CompleteTask(r.Context(), identity.AccountID, req.TaskID)
		return err
	})
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"points_added": services.TaskPoints,
		"balance":      newBalance,
	})
}

func (s *Server) handleClaimInvite(w http.ResponseWriter, r *http.Request) {
	identity, _ := middleware.IdentityFromContext(r.Context())

	var req struct {
		InviterID string `json:"inviter_id"`
	}
	if err := decodeBody(r, &req); err != nil {
		respondError(w, r, err)
		return
	}
	if req.InviterID == "" {
		respondError(w, r, domain.NewValidationError("inviter_id", "is required"))
		return
	}

	var result *interfaces.ReferralResult
	err := s.withUnitOfWork(r.Context(), func(uow interfaces.UnitOfWork) error {
		referrals := s.referralService(uow)
		var err error
		result, err = referrals.AwardReferral(r.Context(), req.InviterID, identity.ExternalID)
		return err
	})
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"inviter_bonus":    result.InviterBonus,
		"invitee_bonus":    result.InviteeBonus,
		"invitee_credited": result.InviteeCredited,
	})
}

func (s *Server) handleListReferrals(w http.ResponseWriter, r *http.Request) {
	identity, _ := middleware.IdentityFromContext(r.Context())

	var details []*entities.ReferralDetail
	err := s.withUnitOfWork(r.Context(), func(uow interfaces.UnitOfWork) error {
		referrals := s.referralService(uow)
		var err error
		details, err = referrals.ListReferrals(r.Context(), identity.AccountID)
		return err
	})
	if err != nil {
		respondError(w, r, err)
		return
	}

	type referralItem struct {
		ExternalID string    `json:"external_id"`
		Username   string    `json:"username"`
		JoinedAt   time.Time `json:"joined_at"`
	}
	items := make([]referralItem, 0, len(details))
	for _, d := range details {
		items = append(items, referralItem{
			ExternalID: d.InviteeExternalID,
			Username:   d.InviteeUsername,
			JoinedAt:   d.JoinedAt,
		})
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"count":     len(items),
		"referrals": items,
	})
}

func (s *Server) handleBuyTickets(w http.ResponseWriter, r *http.Request) {
	identity, _ := middleware.IdentityFromContext(r.Context())

	var req struct {
		Count int64 `json:"count"`
	}
	if err := decodeBody(r, &req); err != nil {
		respondError(w, r, err)
		return
	}

	var result *interfaces.TicketPurchaseResult
	err := s.withUnitOfWork(r.Context(), func(uow interfaces.UnitOfWork) error {
		lottery := s.lotteryService(uow)
		var err error
		result, err = lottery.PurchaseTickets(r.Context(), identity.AccountID, req.Count)
		return err
	})
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"tickets_bought": result.Ticket.TicketCount,
		"points_spent":   result.Ticket.PointsSpent,
		"balance":        result.NewBalance,
	})
}

func (s *Server) handleLotteryResults(w http.ResponseWriter, r *http.Request) {
	period := chi.URLParam(r, "period")

	var draw *entities.LotteryDraw
	err := s.withUnitOfWork(r.Context(), func(uow interfaces.UnitOfWork) error {
		lottery := s.lotteryService(uow)
		var err error
		draw, err = lottery.GetResults(r.Context(), period)
		return err
	})
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, toDrawResponse(draw))
}

func (s *Server) handleWithdrawalRules(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{
		"points_per_token": services.WithdrawRatio,
		"min_tokens":       services.MinWithdrawTokens,
		"min_points":       services.WithdrawRatio * services.MinWithdrawTokens,
	})
}

func (s *Server) handleCreateWithdrawal(w http.ResponseWriter, r *http.Request) {
	identity, _ := middleware.IdentityFromContext(r.Context())

	var req struct {
		Tokens  int64   `json:"tokens"`
		Address *string `json:"address"`
	}
	if err := decodeBody(r, &req); err != nil {
		respondError(w, r, err)
		return
	}

	var withdrawal *entities.Withdrawal
	err := s.withUnitOfWork(r.Context(), func(uow interfaces.UnitOfWork) error {
		withdrawals := s.withdrawalService(uow)
		var err error
		withdrawal, err = withdrawals.Create(r.Context(), identity.AccountID, req.Tokens, req.Address)
		return err
	})
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusCreated, toWithdrawalResponse(withdrawal))
}

func (s *Server) handleListWithdrawals(w http.ResponseWriter, r *http.Request) {
	identity, _ := middleware.IdentityFromContext(r.Context())

	var withdrawals []*entities.Withdrawal
	err := s.withUnitOfWork(r.Context(), func(uow interfaces.UnitOfWork) error {
		svc := s.withdrawalService(uow)
		var err error
		withdrawals, err = svc.ListByAccount(r.Context(), identity.AccountID)
		return err
	})
	if err != nil {
		respondError(w, r, err)
		return
	}

	items := make([]withdrawalResponse, 0, len(withdrawals))
	for _, wd := range withdrawals {
		items = append(items, toWithdrawalResponse(wd))
	}
	respondJSON(w, http.StatusOK, map[string]any{"withdrawals": items})
}

// Service builders scoped to one unit of work

func (s *Server) ledgerService(uow interfaces.UnitOfWork) interfaces.LedgerService {
	return services.NewLedgerService(uow.AccountRepository(), uow.LedgerEventRepository())
}

func (s *Server) referralService(uow interfaces.UnitOfWork) interfaces.ReferralService {
	return services.NewReferralService(uow.AccountRepository(), uow.ReferralRepository(), s.ledgerService(uow))
}

func (s *Server) lotteryService(uow interfaces.UnitOfWork) interfaces.LotteryService {
	return services.NewLotteryService(uow.AccountRepository(), uow.LotteryTicketRepository(), uow.LotteryDrawRepository(), s.ledgerService(uow), s.numbers)
}

func (s *Server) withdrawalService(uow interfaces.UnitOfWork) interfaces.WithdrawalService {
	return services.NewWithdrawalService(uow.AccountRepository(), uow.WithdrawalRepository(), s.ledgerService(uow))
}

func toDrawResponse(draw *entities.LotteryDraw) map[string]any {
	return map[string]any{
		"period":             draw.Period,
		"total_tickets":      draw.TotalTickets,
		"total_participants": draw.TotalParticipants,
		"winners":            draw.Winners,
		"drawn_at":           draw.CreatedAt,
	}
}
