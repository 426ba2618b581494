package models

// AccountType classifies an account. Bank and cash accounts are liquid and
// feed runway and savings math; the rest are excluded from it.
type AccountType string

const (
	AccountBank     AccountType = "bank"
	AccountCash     AccountType = "cash"
	AccountHoldings AccountType = "holdings"
	AccountCrypto   AccountType = "crypto"
	AccountOther    AccountType = "other"
)

// IsLiquid reports whether balances of this account type count toward runway.
func (t AccountType) IsLiquid() bool {
	return t == AccountBank || t == AccountCash
}

// TransactionType is the direction of a transaction.
type TransactionType string

const (
	TransactionDebit  TransactionType = "debit"
	TransactionCredit TransactionType = "credit"
)

// RiskAppetite is the user's self-declared risk preference.
type RiskAppetite string

const (
	AppetiteConservative RiskAppetite = "conservative"
	AppetiteModerate     RiskAppetite = "moderate"
	AppetiteAggressive   RiskAppetite = "aggressive"
)

// GoalPriority orders goals for display.
type GoalPriority string

const (
	PriorityHigh   GoalPriority = "high"
	PriorityMedium GoalPriority = "medium"
	PriorityLow    GoalPriority = "low"
)

// GoalStatus is the evaluated feasibility of a goal.
type GoalStatus string

const (
	GoalOnTrack     GoalStatus = "on_track"
	GoalAtRisk      GoalStatus = "at_risk"
	GoalUnrealistic GoalStatus = "unrealistic"
)

// RecurrenceFrequency for recurring transactions (monthly only for now).
type RecurrenceFrequency string

const (
	RecurrenceMonthly RecurrenceFrequency = "monthly"
)

// MacroState is the coarse market regime used to bias allocation.
type MacroState string

const (
	MacroBull      MacroState = "bull"
	MacroBear      MacroState = "bear"
	MacroRecession MacroState = "recession"
	MacroSideways  MacroState = "sideways"
)

// AssetClass is a bucket in the recommended allocation.
type AssetClass string

const (
	AssetEquity AssetClass = "equity"
	AssetDebt   AssetClass = "debt"
	AssetCash   AssetClass = "cash"
	AssetOther  AssetClass = "other"
)
