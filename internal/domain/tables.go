package domain

var Tables = []interface{}{
	&PaymentRecord{},
	&ExchangeOrder{},
	&AuditLog{},
}
