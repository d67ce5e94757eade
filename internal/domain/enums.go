package domain

type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
	PriorityNone   Priority = "none"
)

type EnergyLevel string

const (
	EnergyHigh   EnergyLevel = "high"
	EnergyMedium EnergyLevel = "medium"
	EnergyLow    EnergyLevel = "low"
)

type RecurringFrequency string

const (
	RecurDaily    RecurringFrequency = "daily"
	RecurWeekly   RecurringFrequency = "weekly"
	RecurBiweekly RecurringFrequency = "biweekly"
	RecurMonthly  RecurringFrequency = "monthly"
)

// ValidPriorities is the canonical set of accepted priority strings.
var ValidPriorities = map[string]bool{
	"high": true, "medium": true, "low": true, "none": true,
}

// ValidEnergyLevels is the canonical set of accepted energy level strings.
var ValidEnergyLevels = map[string]bool{
	"high": true, "medium": true, "low": true,
}

// ValidRecurringFrequencies is the canonical set of accepted recurrence strings.
var ValidRecurringFrequencies = map[string]bool{
	"daily": true, "weekly": true, "biweekly": true, "monthly": true,
}
