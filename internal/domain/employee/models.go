package employee

import "time"

type Employee struct {
	ID        int64     `json:"id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Email     string    `json:"email"`
	HireDate  time.Time `json:"hire_date"`
	Position  string    `json:"position"`
	Salary    float64   `json:"salary"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (e Employee) FullName() string {
	return e.FirstName + " " + e.LastName
}

// Input is the writable part of an Employee, used for create and full update.
type Input struct {
	FirstName string
	LastName  string
	Email     string
	HireDate  time.Time
	Position  string
	Salary    float64
	Status    string
}

type Filter struct {
	Search       string
	HireDateFrom *time.Time
	HireDateTo   *time.Time
	Status       string
	Limit        int
	Offset       int
}
