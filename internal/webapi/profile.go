package webapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/aitopia-kr/aitopia/internal/wallet"
	"github.com/aitopia-kr/aitopia/internal/webserver"
)

const (
	msgBankSaved     = "은행 계좌가 등록되었습니다!"
	msgBankTemporary = "은행 계좌가 임시 저장되었습니다. (새로고침 시 재입력 필요)"
)

type walletResponse struct {
	WalletAddress string `json:"walletAddress"`
	ShortAddress  string `json:"shortAddress"`
	Persisted     bool   `json:"persisted"`
}

// GetProfile returns the stored wallet, bank account and consents of the user.
func GetProfile(c echo.Context) error {
	return ok(c, GetAppContext(c).Profiles().Load(userNamespace(c)))
}

// ResetProfile forgets all stored client state of the user.
func ResetProfile(c echo.Context) error {
	removed := GetAppContext(c).Profiles().Reset(userNamespace(c))
	return ok(c, map[string]bool{"success": true, "persisted": removed})
}

type walletRequest struct {
	Address string `json:"address" validate:"required"`
}

// ConnectWallet stores a user supplied address.
func ConnectWallet(c echo.Context) error {
	var req walletRequest
	if e := bindAndValidate(c, &req); e != nil {
		return c.JSON(http.StatusBadRequest, e)
	}
	addr, saved, err := GetAppContext(c).Profiles().SaveWallet(userNamespace(c), req.Address)
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ADDRESS", err.Error(), nil)
	}
	return ok(c, walletResponse{WalletAddress: addr, ShortAddress: wallet.ShortAddress(addr), Persisted: saved})
}

// GenerateWallet creates and stores a simulated address.
func GenerateWallet(c echo.Context) error {
	addr, err := wallet.GenerateAddress()
	if err != nil {
		zap.L().Error("wallet generation failed", zap.Error(err))
		return fail(c, http.StatusInternalServerError, "WALLET_ERROR", "Failed to generate wallet", nil)
	}
	addr, saved, err := GetAppContext(c).Profiles().SaveWallet(userNamespace(c), addr)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "WALLET_ERROR", err.Error(), nil)
	}
	return ok(c, walletResponse{WalletAddress: addr, ShortAddress: wallet.ShortAddress(addr), Persisted: saved})
}

type bankRequest struct {
	BankAccount   string `json:"bankAccount" validate:"required,max=64"`
	AccountHolder string `json:"accountHolder" validate:"required,max=64"`
	BankName      string `json:"bankName" validate:"required,max=64"`
}

// UpdateBankAccount registers the KRW payout account.
func UpdateBankAccount(c echo.Context) error {
	var req bankRequest
	if e := bindAndValidate(c, &req); e != nil {
		return c.JSON(http.StatusBadRequest, e)
	}
	saved, err := GetAppContext(c).Profiles().SaveBankAccount(userNamespace(c), wallet.BankAccount{
		BankAccount:   req.BankAccount,
		AccountHolder: req.AccountHolder,
		BankName:      req.BankName,
	})
	if errors.Is(err, wallet.ErrIncompleteBankAccount) {
		return fail(c, http.StatusBadRequest, "INCOMPLETE_BANK_ACCOUNT", "모든 필드를 입력해주세요!", nil)
	}
	if err != nil {
		return fail(c, http.StatusInternalServerError, "PROFILE_ERROR", err.Error(), nil)
	}
	msg := msgBankSaved
	if !saved {
		msg = msgBankTemporary
	}
	return ok(c, map[string]interface{}{"persisted": saved, "message": msg})
}

type consentRequest struct {
	DataType string `json:"dataType" validate:"required"`
	Consent  bool   `json:"consent"`
}

// UpdateConsent records one data sharing consent.
func UpdateConsent(c echo.Context) error {
	var req consentRequest
	if e := bindAndValidate(c, &req); e != nil {
		return c.JSON(http.StatusBadRequest, e)
	}
	consents, saved, err := GetAppContext(c).Profiles().SetConsent(userNamespace(c), req.DataType, req.Consent)
	if errors.Is(err, wallet.ErrUnknownDataType) {
		return fail(c, http.StatusBadRequest, "UNKNOWN_DATA_TYPE", err.Error(), req.DataType)
	}
	if err != nil {
		return fail(c, http.StatusInternalServerError, "PROFILE_ERROR", err.Error(), nil)
	}
	return ok(c, map[string]interface{}{"consents": consents, "persisted": saved})
}

// registerProfileRoutes registers wallet and profile endpoints
func registerProfileRoutes() {
	webserver.AuthGET("/profile", GetProfile)
	webserver.AuthDELETE("/profile", ResetProfile)
	webserver.AuthPOST("/wallet", ConnectWallet)
	webserver.AuthPOST("/wallet/generate", GenerateWallet)
	webserver.AuthPUT("/profile/bank", UpdateBankAccount)
	webserver.AuthPUT("/profile/consents", UpdateConsent)
}
