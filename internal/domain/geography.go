package domain

// Region is the top administrative level.
type Region struct {
	ID   int64
	Name string
}

// Departement belongs to exactly one Region.
type Departement struct {
	ID       int64
	RegionID int64
	Name     string
}

// Arrondissement (sub-division) is the smallest administrative unit and
// belongs to exactly one Departement.
type Arrondissement struct {
	ID            int64
	DepartementID int64
	Name          string
}

// RegionView is the JSON representation of a Region.
type RegionView struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// View returns the JSON representation of r.
func (r Region) View() RegionView {
	return RegionView{ID: r.ID, Name: r.Name}
}

// DepartementView embeds the parent region's view.
type DepartementView struct {
	ID     int64      `json:"id"`
	Name   string     `json:"name"`
	Region RegionView `json:"region"`
}

// NewDepartementView builds the view of d nested under its region.
func NewDepartementView(d Departement, region Region) DepartementView {
	return DepartementView{ID: d.ID, Name: d.Name, Region: region.View()}
}

// ArrondissementView embeds the departement's view, which embeds the region.
type ArrondissementView struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Departement DepartementView `json:"departement"`
}

// NewArrondissementView builds the three-level view of a.
func NewArrondissementView(a Arrondissement, departement DepartementView) ArrondissementView {
	return ArrondissementView{ID: a.ID, Name: a.Name, Departement: departement}
}
