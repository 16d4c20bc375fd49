package cmd

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/etnz/commission"
	"github.com/shopspring/decimal"
)

const (
	EnvStore           = "COMCALC_STORE"
	EnvKafkaBrokers    = "COMCALC_KAFKA_BROKERS"
	EnvKafkaTopic      = "COMCALC_KAFKA_TOPIC"
	EnvVerbose         = "COMCALC_VERBOSE"
	EnvDepositRate     = "COMCALC_DEPOSIT_RATE"
	EnvDepositMax      = "COMCALC_DEPOSIT_MAX"
	EnvWithdrawalRate  = "COMCALC_WITHDRAWAL_RATE"
	EnvOrganizationMin = "COMCALC_ORGANIZATION_MIN"
	EnvFreeAllowance   = "COMCALC_FREE_ALLOWANCE"
	EnvCurrency        = "COMCALC_CURRENCY"
	EnvSubunits        = "COMCALC_SUBUNITS"
)

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	v := getEnv(key, "")
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		logger.Warnf("invalid %s %q, using %v", key, v, fallback)
		return fallback
	}
	return b
}

func getEnvDecimal(key string, fallback decimal.Decimal) decimal.Decimal {
	v := getEnv(key, "")
	if v == "" {
		return fallback
	}
	d, err := decimal.NewFromString(v)
	if err != nil {
		logger.Warnf("invalid %s %q, using %s", key, v, fallback)
		return fallback
	}
	return d
}

func getEnvInt(key string, fallback int64) int64 {
	v := getEnv(key, "")
	if v == "" {
		return fallback
	}
	i, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		logger.Warnf("invalid %s %q, using %d", key, v, fallback)
		return fallback
	}
	return i
}

// decimalFlag is a flag.Value holding a decimal.
type decimalFlag struct{ v decimal.Decimal }

func (d *decimalFlag) String() string { return d.v.String() }

func (d *decimalFlag) Set(s string) error {
	v, err := decimal.NewFromString(s)
	if err != nil {
		return fmt.Errorf("not a decimal number: %q", s)
	}
	d.v = v
	return nil
}

// rulesFlags declares a flag for every commission constant.
type rulesFlags struct {
	depositRate     decimalFlag
	depositMax      decimalFlag
	withdrawalRate  decimalFlag
	organizationMin decimalFlag
	freeAllowance   decimalFlag
	currency        string
	subunits        int64
}

func (r *rulesFlags) SetFlags(f *flag.FlagSet) {
	d := commission.DefaultRules()
	r.depositRate.v = getEnvDecimal(EnvDepositRate, d.DepositRate)
	r.depositMax.v = getEnvDecimal(EnvDepositMax, d.DepositMax)
	r.withdrawalRate.v = getEnvDecimal(EnvWithdrawalRate, d.WithdrawalRate)
	r.organizationMin.v = getEnvDecimal(EnvOrganizationMin, d.OrganizationMin)
	r.freeAllowance.v = getEnvDecimal(EnvFreeAllowance, d.WeeklyFreeAllowance)

	f.Var(&r.depositRate, "deposit-rate", "Commission rate of deposits.")
	f.Var(&r.depositMax, "deposit-max", "Maximum commission of a deposit.")
	f.Var(&r.withdrawalRate, "withdrawal-rate", "Commission rate of withdrawals.")
	f.Var(&r.organizationMin, "organization-min", "Minimum commission of an organization withdrawal.")
	f.Var(&r.freeAllowance, "free-allowance", "Weekly amount individuals withdraw for free.")
	f.StringVar(&r.currency, "currency", getEnv(EnvCurrency, d.Currency), "Currency of all amounts.")
	f.Int64Var(&r.subunits, "subunits", getEnvInt(EnvSubunits, 0), "Subunits per currency unit commissions round up to, 0 for the currency's own.")
}

// Rules returns the validated rules.
func (r *rulesFlags) Rules() (commission.Rules, error) {
	rules := commission.Rules{
		DepositRate:         r.depositRate.v,
		DepositMax:          r.depositMax.v,
		WithdrawalRate:      r.withdrawalRate.v,
		OrganizationMin:     r.organizationMin.v,
		WeeklyFreeAllowance: r.freeAllowance.v,
		Currency:            strings.ToUpper(strings.TrimSpace(r.currency)),
		Subunits:            r.subunits,
	}
	if err := rules.Validate(); err != nil {
		return rules, fmt.Errorf("invalid commission rules: %w", err)
	}
	return rules, nil
}
