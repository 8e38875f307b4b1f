package cmd

type Config struct {
	HTTPPort           string
	DBHost             string
	DBPort             string
	DBUser             string
	DBPassword         string
	DBName             string
	DBSslMode          string
	PaymentGatewayURL  string
	PaymentGatewayKey  string
	PaymentTimeout     string
	SettlementCurrency string
	CleanupSchedule    string
	CleanupRetention   string
}
