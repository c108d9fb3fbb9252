package rest_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/KirkDiggler/funko-battle/internal/app"
	"github.com/KirkDiggler/funko-battle/internal/config"
	"github.com/KirkDiggler/funko-battle/internal/errors"
	v1alpha1 "github.com/KirkDiggler/funko-battle/internal/handlers/economy/v1alpha1"
	"github.com/KirkDiggler/funko-battle/internal/handlers/rest"
	"github.com/KirkDiggler/funko-battle/internal/pkg/clock"
)

type RouterTestSuite struct {
	suite.Suite
	server *httptest.Server
}

func TestRouterSuite(t *testing.T) {
	suite.Run(t, new(RouterTestSuite))
}

func (s *RouterTestSuite) SetupTest() {
	storage, err := app.NewMemoryStorage(clock.New())
	s.Require().NoError(err)

	economy := config.DefaultEconomy()
	economy.StartingBalance = 100

	services, err := app.NewServices(&app.ServicesConfig{Storage: storage, Economy: economy})
	s.Require().NoError(err)

	router, err := rest.NewRouter(&rest.Config{Economy: services.Handler})
	s.Require().NoError(err)

	s.server = httptest.NewServer(router)
}

func (s *RouterTestSuite) TearDownTest() {
	s.server.Close()
}

func (s *RouterTestSuite) do(method, path string, body any, out any) int {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		s.Require().NoError(err)
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, s.server.URL+path, reader)
	s.Require().NoError(err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	s.Require().NoError(err)
	defer func() { _ = resp.Body.Close() }() // nolint:errcheck // test cleanup

	s.Equal("application/json", resp.Header.Get("Content-Type"))
	if out != nil {
		s.Require().NoError(json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

type errorResponse struct {
	Error string      `json:"error"`
	Code  errors.Code `json:"code"`
}

func (s *RouterTestSuite) createUser(identity string) *v1alpha1.Account {
	var acct v1alpha1.Account
	status := s.do(http.MethodPost, "/api/user", map[string]string{"external_identity": identity}, &acct)
	s.Require().Equal(http.StatusCreated, status)
	return &acct
}

func (s *RouterTestSuite) TestCreateUserIsIdempotent() {
	created := s.createUser("discord:1")
	s.Equal(int64(100), created.FunkoCoins)
	s.Equal(1, created.Level)

	var again v1alpha1.Account
	status := s.do(http.MethodPost, "/api/user", map[string]string{"external_identity": "discord:1"}, &again)
	s.Equal(http.StatusOK, status)
	s.Equal(created.ID, again.ID)

	var fetched v1alpha1.Account
	s.Equal(http.StatusOK, s.do(http.MethodGet, "/api/user/"+created.ID, nil, &fetched))
	s.Equal(created.ID, fetched.ID)
}

func (s *RouterTestSuite) TestCreateUserFromTelegramID() {
	var acct v1alpha1.Account
	status := s.do(http.MethodPost, "/api/user", map[string]any{"telegram_id": 123456789}, &acct)
	s.Equal(http.StatusCreated, status)
	s.Equal("telegram:123456789", acct.ExternalIdentity)
}

func (s *RouterTestSuite) TestOpenBoxFlow() {
	acct := s.createUser("discord:2")

	var opened v1alpha1.OpenBoxResponse
	status := s.do(http.MethodPost, "/api/mystery-box",
		map[string]string{"user_id": acct.ID, "box_type": "common"}, &opened)
	s.Require().Equal(http.StatusOK, status)
	s.Equal(int64(0), opened.UserCoins)
	s.Equal(int64(100), opened.Cost)
	s.Contains([]string{"common", "rare"}, opened.Funko.Rarity)
	s.GreaterOrEqual(opened.Funko.Power, 10)
	s.LessOrEqual(opened.Funko.Power, 35)

	var short errorResponse
	status = s.do(http.MethodPost, "/api/mystery-box",
		map[string]string{"user_id": acct.ID, "box_type": "legendary"}, &short)
	s.Equal(http.StatusBadRequest, status)
	s.Equal(errors.CodeInsufficientFunds, short.Code)

	var list v1alpha1.ListCollectiblesResponse
	s.Equal(http.StatusOK, s.do(http.MethodGet, "/api/user/"+acct.ID+"/collectibles", nil, &list))
	s.Require().Len(list.Funkos, 1)
	s.Equal(opened.Funko.ID, list.Funkos[0].ID)
}

func (s *RouterTestSuite) TestBattleAndExchange() {
	acct := s.createUser("discord:3")

	var fought v1alpha1.StartBattleResponse
	status := s.do(http.MethodPost, "/api/battle/start", map[string]string{"user_id": acct.ID}, &fought)
	s.Require().Equal(http.StatusOK, status)
	s.GreaterOrEqual(fought.Reward, int64(50))
	s.LessOrEqual(fought.Reward, int64(200))
	s.Equal(100+fought.Reward, fought.UserCoins)
	s.Regexp(`^AI Opponent #\d{4}$`, fought.Opponent.Name)

	var record v1alpha1.Battle
	s.Equal(http.StatusOK, s.do(http.MethodGet, "/api/battle/"+fought.BattleID, nil, &record))
	s.Equal(acct.ID, record.UserID)
	s.Nil(record.WinnerID)

	var exchanged v1alpha1.ExchangeResponse
	status = s.do(http.MethodPost, "/api/exchange", map[string]any{
		"user_id":     acct.ID,
		"amount":      fought.UserCoins,
		"crypto_type": "btc",
	}, &exchanged)
	s.Require().Equal(http.StatusOK, status)
	s.True(exchanged.Success)
	s.Equal(int64(0), exchanged.RemainingCoins)
	s.InDelta(float64(fought.UserCoins)*0.0000001, exchanged.CryptoAmount, 1e-15)
}

func (s *RouterTestSuite) TestErrors() {
	acct := s.createUser("discord:4")

	testCases := []struct {
		name   string
		method string
		path   string
		body   any
		status int
		code   errors.Code
	}{
		{"unknown user", http.MethodGet, "/api/user/acct_missing", nil, http.StatusNotFound, errors.CodeNotFound},
		{"unknown battle", http.MethodGet, "/api/battle/battle_missing", nil, http.StatusNotFound, errors.CodeNotFound},
		{"unknown box", http.MethodPost, "/api/mystery-box",
			map[string]string{"user_id": acct.ID, "box_type": "mythic"}, http.StatusBadRequest, errors.CodeInvalidArgument},
		{"unknown unit", http.MethodPost, "/api/exchange",
			map[string]any{"user_id": acct.ID, "amount": 1, "crypto_type": "doge"},
			http.StatusBadRequest, errors.CodeInvalidArgument},
		{"overdrawn exchange", http.MethodPost, "/api/exchange",
			map[string]any{"user_id": acct.ID, "amount": 101, "crypto_type": "btc"},
			http.StatusBadRequest, errors.CodeInsufficientFunds},
		{"missing identity", http.MethodPost, "/api/user", map[string]string{}, http.StatusBadRequest,
			errors.CodeInvalidArgument},
		{"reserved identity", http.MethodPost, "/api/user",
			map[string]string{"external_identity": "system:exchange-treasury"}, http.StatusBadRequest,
			errors.CodeInvalidArgument},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			var out errorResponse
			s.Equal(tc.status, s.do(tc.method, tc.path, tc.body, &out))
			s.Equal(tc.code, out.Code)
			s.NotEmpty(out.Error)
		})
	}
}

func (s *RouterTestSuite) TestMalformedBody() {
	resp, err := http.Post(s.server.URL+"/api/mystery-box", "application/json", strings.NewReader("{"))
	s.Require().NoError(err)
	defer func() { _ = resp.Body.Close() }() // nolint:errcheck // test cleanup

	s.Equal(http.StatusBadRequest, resp.StatusCode)
}

func (s *RouterTestSuite) TestRatesHealthAndMetrics() {
	var rates v1alpha1.GetExchangeRatesResponse
	s.Equal(http.StatusOK, s.do(http.MethodGet, "/api/exchange/rates", nil, &rates))
	s.Equal(map[string]float64{"btc": 0.0000001, "eth": 0.000001}, rates.Rates)

	var health map[string]string
	s.Equal(http.StatusOK, s.do(http.MethodGet, "/healthz", nil, &health))
	s.Equal("ok", health["status"])

	resp, err := http.Get(s.server.URL + "/metrics")
	s.Require().NoError(err)
	defer func() { _ = resp.Body.Close() }() // nolint:errcheck // test cleanup

	body, err := io.ReadAll(resp.Body)
	s.Require().NoError(err)
	s.Contains(string(body), "funko_http_requests_total")
}

func (s *RouterTestSuite) TestNewRouterValidation() {
	_, err := rest.NewRouter(&rest.Config{})
	s.True(errors.IsInvalidArgument(err))
}
