package wallet

import (
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/aitopia-kr/aitopia/internal/storage"
)

var ErrIncompleteBankAccount = errors.New("bank name, account and holder are required")

// BankAccount is the KRW payout destination for exchanges.
type BankAccount struct {
	BankAccount   string `json:"bankAccount"`
	AccountHolder string `json:"accountHolder"`
	BankName      string `json:"bankName"`
}

// Complete reports whether every field is filled in.
func (b BankAccount) Complete() bool {
	return strings.TrimSpace(b.BankAccount) != "" &&
		strings.TrimSpace(b.AccountHolder) != "" &&
		strings.TrimSpace(b.BankName) != ""
}

// Profile is the client state kept for one signed-in user.
type Profile struct {
	WalletAddress    string   `json:"walletAddress"`
	BankAccount      string   `json:"bankAccount"`
	AccountHolder    string   `json:"accountHolder"`
	BankName         string   `json:"bankName"`
	Consents         Consents `json:"consents"`
	StorageAvailable bool     `json:"storageAvailable"`
}

func (p Profile) Bank() BankAccount {
	return BankAccount{BankAccount: p.BankAccount, AccountHolder: p.AccountHolder, BankName: p.BankName}
}

// Service reads and writes profiles through the client state accessor.
// The namespace is the signed-in user's identity.
type Service struct {
	store *storage.Accessor
}

func NewService(store *storage.Accessor) *Service {
	return &Service{store: store}
}

func (s *Service) StorageAvailable() bool {
	return s.store.Available()
}

func (s *Service) Load(ns string) Profile {
	p := Profile{StorageAvailable: s.store.Available()}
	p.WalletAddress, _ = s.store.Get(ns, storage.KeyWallet)
	p.BankAccount, _ = s.store.Get(ns, storage.KeyBankAccount)
	p.AccountHolder, _ = s.store.Get(ns, storage.KeyAccountHolder)
	p.BankName, _ = s.store.Get(ns, storage.KeyBankName)
	if raw, ok := s.store.Get(ns, storage.KeyConsents); ok {
		c, err := DecodeConsents(raw)
		if err != nil {
			zap.L().Warn("stored consents unreadable, using defaults", zap.String("ns", ns), zap.Error(err))
		} else {
			p.Consents = c
		}
	}
	return p
}

// SaveWallet validates and stores the address. The returned bool is false
// when the address could only be kept for the current session.
func (s *Service) SaveWallet(ns, address string) (string, bool, error) {
	addr, err := NormalizeAddress(address)
	if err != nil {
		return "", false, err
	}
	saved := s.store.Set(ns, storage.KeyWallet, addr)
	if !saved {
		zap.L().Info("wallet address kept for this session only", zap.String("ns", ns))
	}
	return addr, saved, nil
}

// SaveBankAccount stores all three fields; persisted only if every write succeeded.
func (s *Service) SaveBankAccount(ns string, b BankAccount) (bool, error) {
	b.BankAccount = strings.TrimSpace(b.BankAccount)
	b.AccountHolder = strings.TrimSpace(b.AccountHolder)
	b.BankName = strings.TrimSpace(b.BankName)
	if !b.Complete() {
		return false, ErrIncompleteBankAccount
	}
	saved1 := s.store.Set(ns, storage.KeyBankAccount, b.BankAccount)
	saved2 := s.store.Set(ns, storage.KeyAccountHolder, b.AccountHolder)
	saved3 := s.store.Set(ns, storage.KeyBankName, b.BankName)
	return saved1 && saved2 && saved3, nil
}

// SetConsent flips one consent flag and returns the resulting set.
func (s *Service) SetConsent(ns, dataType string, consent bool) (Consents, bool, error) {
	current := s.Load(ns).Consents
	if err := current.Set(dataType, consent); err != nil {
		return Consents{}, false, err
	}
	raw, err := current.Encode()
	if err != nil {
		return Consents{}, false, errors.Wrap(err, "encode consents")
	}
	return current, s.store.Set(ns, storage.KeyConsents, raw), nil
}

// Reset forgets everything stored for ns.
func (s *Service) Reset(ns string) bool {
	ok := true
	for _, key := range []string{
		storage.KeyWallet, storage.KeyBankAccount, storage.KeyAccountHolder,
		storage.KeyBankName, storage.KeyConsents,
	} {
		ok = s.store.Remove(ns, key) && ok
	}
	return ok
}
