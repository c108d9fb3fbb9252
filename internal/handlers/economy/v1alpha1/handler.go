// Package v1alpha1 handles the economy gRPC service interface
package v1alpha1

import (
	"context"

	"github.com/KirkDiggler/funko-battle/internal/errors"
	"github.com/KirkDiggler/funko-battle/internal/orchestrators/account"
	"github.com/KirkDiggler/funko-battle/internal/orchestrators/battle"
	"github.com/KirkDiggler/funko-battle/internal/orchestrators/box"
	"github.com/KirkDiggler/funko-battle/internal/orchestrators/exchange"
)

// HandlerConfig holds dependencies for the handler
type HandlerConfig struct {
	AccountService  account.Service
	BoxService      box.Service
	BattleService   battle.Service
	ExchangeService exchange.Service
}

// Validate ensures all required dependencies are present
func (c *HandlerConfig) Validate() error {
	vb := errors.NewValidationBuilder()

	if c.AccountService == nil {
		vb.RequiredField("AccountService")
	}
	if c.BoxService == nil {
		vb.RequiredField("BoxService")
	}
	if c.BattleService == nil {
		vb.RequiredField("BattleService")
	}
	if c.ExchangeService == nil {
		vb.RequiredField("ExchangeService")
	}

	return vb.Build()
}

// Handler implements EconomyServiceServer on top of the orchestrators
type Handler struct {
	accountService  account.Service
	boxService      box.Service
	battleService   battle.Service
	exchangeService exchange.Service
}

var _ EconomyServiceServer = (*Handler)(nil)

// NewHandler creates a new handler with the given configuration
func NewHandler(cfg *HandlerConfig) (*Handler, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &Handler{
		accountService:  cfg.AccountService,
		boxService:      cfg.BoxService,
		battleService:   cfg.BattleService,
		exchangeService: cfg.ExchangeService,
	}, nil
}

// GetOrCreateAccount resolves a player, creating the account on first contact
func (h *Handler) GetOrCreateAccount(
	ctx context.Context,
	req *GetOrCreateAccountRequest,
) (*GetOrCreateAccountResponse, error) {
	if req.ExternalIdentity == "" {
		return nil, errors.ToGRPCError(errors.InvalidArgument("external_identity is required"))
	}

	output, err := h.accountService.GetOrCreateAccount(ctx, &account.GetOrCreateAccountInput{
		ExternalIdentity: req.ExternalIdentity,
	})
	if err != nil {
		return nil, errors.ToGRPCError(err)
	}

	return &GetOrCreateAccountResponse{
		Account: ConvertAccount(output.Account),
		Created: output.Created,
	}, nil
}

// GetAccount loads an account
func (h *Handler) GetAccount(ctx context.Context, req *GetAccountRequest) (*GetAccountResponse, error) {
	if req.UserID == "" {
		return nil, errors.ToGRPCError(errors.InvalidArgument("user_id is required"))
	}

	output, err := h.accountService.GetAccount(ctx, &account.GetAccountInput{AccountID: req.UserID})
	if err != nil {
		return nil, errors.ToGRPCError(err)
	}

	return &GetAccountResponse{Account: ConvertAccount(output.Account)}, nil
}

// ListCollectibles returns an account's collection
func (h *Handler) ListCollectibles(
	ctx context.Context,
	req *ListCollectiblesRequest,
) (*ListCollectiblesResponse, error) {
	if req.UserID == "" {
		return nil, errors.ToGRPCError(errors.InvalidArgument("user_id is required"))
	}

	output, err := h.accountService.ListCollectibles(ctx, &account.ListCollectiblesInput{AccountID: req.UserID})
	if err != nil {
		return nil, errors.ToGRPCError(err)
	}

	return &ListCollectiblesResponse{Funkos: ConvertCollectibles(output.Collectibles)}, nil
}

// OpenBox buys and opens a mystery box
func (h *Handler) OpenBox(ctx context.Context, req *OpenBoxRequest) (*OpenBoxResponse, error) {
	vb := errors.NewValidationBuilder()
	errors.ValidateRequired("user_id", req.UserID, vb)
	errors.ValidateRequired("box_type", req.BoxType, vb)
	if err := vb.Build(); err != nil {
		return nil, errors.ToGRPCError(err)
	}

	output, err := h.boxService.OpenBox(ctx, &box.OpenBoxInput{
		AccountID: req.UserID,
		BoxTier:   req.BoxType,
	})
	if err != nil {
		return nil, errors.ToGRPCError(err)
	}

	return &OpenBoxResponse{
		Funko:     ConvertCollectible(output.Collectible),
		Cost:      output.Cost,
		UserCoins: output.Account.Balance,
	}, nil
}

// StartBattle fights a synthetic opponent and pays the reward
func (h *Handler) StartBattle(ctx context.Context, req *StartBattleRequest) (*StartBattleResponse, error) {
	if req.UserID == "" {
		return nil, errors.ToGRPCError(errors.InvalidArgument("user_id is required"))
	}

	output, err := h.battleService.StartBattle(ctx, &battle.StartBattleInput{
		AccountID:     req.UserID,
		CollectibleID: req.FunkoID,
	})
	if err != nil {
		return nil, errors.ToGRPCError(err)
	}

	return &StartBattleResponse{
		BattleID:  output.Battle.ID,
		Opponent:  ConvertOpponent(output.Battle),
		Reward:    output.Battle.RewardAmount,
		UserCoins: output.Account.Balance,
	}, nil
}

// GetBattle loads a battle record
func (h *Handler) GetBattle(ctx context.Context, req *GetBattleRequest) (*GetBattleResponse, error) {
	if req.BattleID == "" {
		return nil, errors.ToGRPCError(errors.InvalidArgument("battle_id is required"))
	}

	output, err := h.battleService.GetBattle(ctx, &battle.GetBattleInput{BattleID: req.BattleID})
	if err != nil {
		return nil, errors.ToGRPCError(err)
	}

	return &GetBattleResponse{Battle: ConvertBattle(output.Battle)}, nil
}

// Exchange converts coins into an external unit
func (h *Handler) Exchange(ctx context.Context, req *ExchangeRequest) (*ExchangeResponse, error) {
	vb := errors.NewValidationBuilder()
	errors.ValidateRequired("user_id", req.UserID, vb)
	errors.ValidateRequired("crypto_type", req.CryptoType, vb)
	errors.ValidateNonNegative("amount", req.Amount, vb)
	if err := vb.Build(); err != nil {
		return nil, errors.ToGRPCError(err)
	}

	output, err := h.exchangeService.Exchange(ctx, &exchange.ExchangeInput{
		AccountID: req.UserID,
		Amount:    req.Amount,
		Unit:      req.CryptoType,
	})
	if err != nil {
		return nil, errors.ToGRPCError(err)
	}

	return &ExchangeResponse{
		Success:        true,
		CryptoType:     output.Unit,
		Rate:           output.Rate,
		CryptoAmount:   output.ExternalAmount,
		RemainingCoins: output.Account.Balance,
	}, nil
}

// GetExchangeRates returns the rate table
func (h *Handler) GetExchangeRates(
	ctx context.Context,
	_ *GetExchangeRatesRequest,
) (*GetExchangeRatesResponse, error) {
	output, err := h.exchangeService.Rates(ctx, &exchange.RatesInput{})
	if err != nil {
		return nil, errors.ToGRPCError(err)
	}

	return &GetExchangeRatesResponse{Rates: output.Rates}, nil
}
