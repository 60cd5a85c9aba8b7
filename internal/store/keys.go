package store

// Slot names used by the application.
const (
	KeyTransactions    = "transactions"
	KeyTasks           = "todoTasks"
	KeyMeals           = "meals"
	KeyLastVisitedMeal = "lastVisitedMeal"
	KeyWorkLog         = "workHoursHistory"
)
