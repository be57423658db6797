package domain

// Dataset is a full copy of the backend collections, used to seed and export stores.
// Employees keep their wrapped shape.
type Dataset struct {
	Tasks     []Task       `json:"tasks"`
	Teams     []Team       `json:"teams"`
	Employees EmployeeList `json:"employees"`
}

// Normalized returns a copy with nil collections replaced by empty ones.
func (d Dataset) Normalized() Dataset {
	if d.Tasks == nil {
		d.Tasks = []Task{}
	}
	if d.Teams == nil {
		d.Teams = []Team{}
	}
	if d.Employees.Employees == nil {
		d.Employees.Employees = []Employee{}
	}
	return d
}
