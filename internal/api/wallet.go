package api

import (
	"context"
	"net/http"

	"go.uber.org/zap"
	"wallet_live/internal/credential"
	"wallet_live/internal/model"
)

type WalletClient struct {
	base
}

func NewWalletClient(baseURL string, tokens credential.Store, logger *zap.Logger) *WalletClient {
	return &WalletClient{base: newBase(baseURL, tokens, logger)}
}

func (c *WalletClient) Balance(ctx context.Context) (model.WalletStats, error) {
	var out model.WalletStats
	if err := c.get(ctx, "/api/wallet/balance", &out); err != nil {
		return model.WalletStats{}, err
	}
	return out, nil
}

func (c *WalletClient) Transactions(ctx context.Context) ([]model.Transaction, error) {
	var out []model.Transaction
	if err := c.get(ctx, "/api/wallet/transactions", &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *WalletClient) Chart(ctx context.Context) ([]model.ChartPoint, error) {
	var out []model.ChartPoint
	if err := c.get(ctx, "/api/wallet/chart", &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *WalletClient) get(ctx context.Context, path string, out any) error {
	resp, err := c.do(ctx, http.MethodGet, path, nil, true)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return &Error{Status: resp.StatusCode, Message: readText(resp), kind: ErrUnauthorized}
	case resp.StatusCode/100 != 2:
		return &Error{Status: resp.StatusCode, Message: readText(resp), kind: ErrAuthFailed}
	}
	return decode(resp, out)
}
