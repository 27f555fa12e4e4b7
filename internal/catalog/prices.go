package catalog

// DefaultPrice is charged for a service key unknown to both the catalog and DefaultPrices.
const DefaultPrice int64 = 50000

// DefaultPrices is the compiled-in KRW price list used when the catalog cannot price a key.
var DefaultPrices = map[string]int64{
	"nft-creator":  159000,
	"online-sales": 89000,
	"app-dev":      129000,
	"memecoin":     69000,
	"advertising":  49000,
	"music":        39000,
}

// TablePrice returns the compiled-in price for key, if any.
func TablePrice(key string) (int64, bool) {
	p, ok := DefaultPrices[key]
	return p, ok
}
