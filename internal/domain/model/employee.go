package model

// Employee is an ingested employee record with its evaluation scores.
type Employee struct {
	ID           string
	EmployeeCode string
	Name         string
	Email        string
	Department   string
	Position     string
	Status       string
	Scores       ScoreSet
}

// ClassifiedEmployee is an employee with its derived total score and category.
// It is recomputed whenever the inputs change and never stored on its own.
type ClassifiedEmployee struct {
	Employee   Employee
	TotalScore float64
	HasAnyData bool
	Category   *Band
}
