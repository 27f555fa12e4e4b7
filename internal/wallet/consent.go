package wallet

import (
	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
)

// Data types a user may consent to share
const (
	ConsentFinancial = "financial"
	ConsentTelecom   = "telecom"
	ConsentPublic    = "public"
	ConsentShopping  = "shopping"
	ConsentSocial    = "social"
)

var ErrUnknownDataType = errors.New("unknown data type")

// Consents records the MyData sharing choices. Nothing enforces them.
type Consents struct {
	Financial bool `json:"financial"`
	Telecom   bool `json:"telecom"`
	Public    bool `json:"public"`
	Shopping  bool `json:"shopping"`
	Social    bool `json:"social"`
}

// Set updates one flag by data type name.
func (c *Consents) Set(dataType string, consent bool) error {
	switch dataType {
	case ConsentFinancial:
		c.Financial = consent
	case ConsentTelecom:
		c.Telecom = consent
	case ConsentPublic:
		c.Public = consent
	case ConsentShopping:
		c.Shopping = consent
	case ConsentSocial:
		c.Social = consent
	default:
		return errors.Wrap(ErrUnknownDataType, dataType)
	}
	return nil
}

func (c Consents) Encode() (string, error) {
	return jsoniter.ConfigCompatibleWithStandardLibrary.MarshalToString(c)
}

func DecodeConsents(s string) (Consents, error) {
	var c Consents
	err := jsoniter.ConfigCompatibleWithStandardLibrary.UnmarshalFromString(s, &c)
	return c, err
}
