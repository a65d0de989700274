package services

import (
	"context"
	"fmt"

	"adsbot/domain"
	"adsbot/domain/entities"
	"adsbot/domain/interfaces"

	log "github.com/sirupsen/logrus"
)

// lotteryService sells tickets and conducts the weighted periodic draw
type lotteryService struct {
	accountRepo interfaces.AccountRepository
	ticketRepo  interfaces.LotteryTicketRepository
	drawRepo    interfaces.LotteryDrawRepository
	ledger      interfaces.LedgerService
	numbers     interfaces.NumberSource
}

// NewLotteryService creates a new lottery service
func NewLotteryService(
	accountRepo interfaces.AccountRepository,
	ticketRepo interfaces.LotteryTicketRepository,
	drawRepo interfaces.LotteryDrawRepository,
	ledger interfaces.LedgerService,
	numbers interfaces.NumberSource,
) interfaces.LotteryService {
	return &lotteryService{
		accountRepo: accountRepo,
		ticketRepo:  ticketRepo,
		drawRepo:    drawRepo,
		ledger:      ledger,
		numbers:     numbers,
	}
}

// PurchaseTickets debits points and records an immutable ticket purchase.
// The requested count is clamped to what the balance affords, matching the
// storefront behavior: ask for 10, afford 3, get 3.
func (s *lotteryService) PurchaseTickets(ctx context.Context, accountID int64, count int64) (*interfaces.TicketPurchaseResult, error) {
	if count <= 0 {
		return nil, domain.NewValidationError("count", "must be positive")
	}

	account, err := s.accountRepo.GetByIDForUpdate(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to lock account %d: %w", accountID, err)
	}
	if account == nil {
		return nil, domain.ErrNotFound
	}

	maxAffordable := account.Balance / TicketPrice
	if maxAffordable < 1 {
		return nil, domain.ErrInsufficientBalance
	}
	if count > maxAffordable {
		count = maxAffordable
	}
	pointsNeeded := count * TicketPrice

	newBalance, err := s.ledger.Debit(ctx, accountID, pointsNeeded, entities.EventKindLotteryTicket, map[string]any{
		"ticket_count": count,
	})
	if err != nil {
		return nil, err
	}

	ticket := &entities.LotteryTicket{
		AccountID:   accountID,
		TicketCount: count,
		PointsSpent: pointsNeeded,
	}
	if err := s.ticketRepo.Create(ctx, ticket); err != nil {
		return nil, fmt.Errorf("failed to create ticket record: %w", err)
	}

	return &interfaces.TicketPurchaseResult{
		Ticket:     ticket,
		NewBalance: newBalance,
	}, nil
}

// ConductDraw runs the weighted drawing for a period and credits winners.
// Each participant owns a contiguous range of integers proportional to their
// tickets; a uniform number in [1, total] selects the winner for each place,
// resampling numbers already used in this draw.
func (s *lotteryService) ConductDraw(ctx context.Context, period string) (*entities.LotteryDraw, error) {
	if err := entities.ValidatePeriod(period); err != nil {
		return nil, domain.NewValidationError("period", err.Error())
	}

	// Fast path; the unique constraint on period is the real guard
	existing, err := s.drawRepo.GetByPeriod(ctx, period)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing draw: %w", err)
	}
	if existing != nil {
		return nil, domain.ErrDrawAlreadyConducted
	}

	participants, err := s.ticketRepo.GetParticipantsForPeriod(ctx, period)
	if err != nil {
		return nil, fmt.Errorf("failed to load participants: %w", err)
	}
	if len(participants) == 0 {
		return nil, domain.ErrNoParticipants
	}

	total := assignRanges(participants)

	places := entities.MaxPrizePlaces
	if len(participants) < places {
		places = len(participants)
	}

	winners := make([]entities.LotteryWinner, 0, places)
	used := make(map[int64]bool)
	for place := 1; place <= places; place++ {
		number, err := s.drawUniqueNumber(total, used)
		if err != nil {
			return nil, err
		}
		winner := findByNumber(participants, number)
		winners = append(winners, entities.LotteryWinner{
			Place:         place,
			AccountID:     winner.AccountID,
			ExternalID:    winner.ExternalID,
			Username:      winner.Username,
			Tickets:       winner.Tickets,
			WinningNumber: number,
			Prize:         entities.PrizeForPlace(place),
		})
	}

	draw := &entities.LotteryDraw{
		Period:            period,
		TotalTickets:      total,
		TotalParticipants: int64(len(participants)),
		Winners:           winners,
	}
	if err := s.drawRepo.Create(ctx, draw); err != nil {
		return nil, err
	}

	// Prizes are credited only after the draw row is persisted; the unique
	// period constraint means winners can never be credited twice.
	for _, w := range winners {
		if _, err := s.ledger.Credit(ctx, w.AccountID, w.Prize, entities.EventKindLotteryWin, map[string]any{
			"period":         period,
			"place":          w.Place,
			"winning_number": w.WinningNumber,
		}); err != nil {
			return nil, fmt.Errorf("failed to credit winner %d: %w", w.AccountID, err)
		}
	}

	log.WithFields(log.Fields{
		"period":       period,
		"tickets":      total,
		"participants": len(participants),
		"winners":      len(winners),
	}).Info("lottery draw conducted")

	return draw, nil
}

// GetResults returns the completed draw for a period
func (s *lotteryService) GetResults(ctx context.Context, period string) (*entities.LotteryDraw, error) {
	if err := entities.ValidatePeriod(period); err != nil {
		return nil, domain.NewValidationError("period", err.Error())
	}
	draw, err := s.drawRepo.GetByPeriod(ctx, period)
	if err != nil {
		return nil, fmt.Errorf("failed to get draw for %s: %w", period, err)
	}
	if draw == nil {
		return nil, domain.ErrNotFound
	}
	return draw, nil
}

// drawUniqueNumber draws a uniform number in [1, total] not yet used in this draw
func (s *lotteryService) drawUniqueNumber(total int64, used map[int64]bool) (int64, error) {
	for {
		n, err := s.numbers.Int64N(total)
		if err != nil {
			return 0, fmt.Errorf("failed to draw winning number: %w", err)
		}
		number := n + 1
		if !used[number] {
			used[number] = true
			return number, nil
		}
	}
}

// assignRanges packs participants' ticket ranges end-to-end starting at 1 and
// returns the total ticket count. Participants arrive in a stable order.
func assignRanges(participants []*entities.LotteryParticipant) int64 {
	var next int64 = 1
	for _, p := range participants {
		p.RangeStart = next
		p.RangeEnd = next + p.Tickets - 1
		next += p.Tickets
	}
	return next - 1
}

// findByNumber locates the participant whose range contains the number
func findByNumber(participants []*entities.LotteryParticipant, number int64) *entities.LotteryParticipant {
	for _, p := range participants {
		if p.OwnsNumber(number) {
			return p
		}
	}
	// Unreachable: ranges cover [1, total] contiguously
	return participants[len(participants)-1]
}
