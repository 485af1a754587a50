package validate

// UserInput is the registration payload.
type UserInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,strongpassword"`
	UserName string `json:"user_name" validate:"required,min=2,max=30"`
}

// Credentials is the login payload.
type Credentials struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,strongpassword"`
}

// MembreInput is the create/update payload of a membre. NbEnfant is a
// pointer so that zero children is distinguishable from a missing field.
type MembreInput struct {
	UserID         int64  `json:"userid" validate:"required"`
	FullName       string `json:"fullname" validate:"required"`
	Genre          string `json:"genre" validate:"required,oneof=M F"`
	DOB            string `json:"dob" validate:"required,date"`
	POB            string `json:"pob" validate:"required"`
	Mother         string `json:"mother" validate:"required"`
	Father         string `json:"father" validate:"required"`
	StatusM        string `json:"statusm" validate:"required,oneof=M C V"`
	Conjoint       string `json:"conjoint" validate:"required"`
	NbEnfant       *int   `json:"nbenfant" validate:"required,gte=0"`
	Contacts       string `json:"contacts" validate:"required"`
	Adresse        string `json:"adresse" validate:"required"`
	Arrondissement int64  `json:"arrondissement" validate:"required"`
}

// User checks a registration payload: all three fields present, a valid
// email address, a strong password and a user name of 2 to 30 characters.
func User(in UserInput) FieldErrors {
	return Struct(in)
}

// EmailAndPassword checks login credentials with the same email and password
// rules as User.
func EmailAndPassword(email, password string) FieldErrors {
	return Struct(Credentials{Email: email, Password: password})
}

// Membre checks that the thirteen membre fields are present, that dob is a
// date and that the enumerated fields hold known codes. Integer typing of
// userid and arrondissement is enforced when the body is decoded.
func Membre(in MembreInput) FieldErrors {
	return Struct(in)
}

// NameInput is the payload of resources identified only by a name (regions,
// fonctions).
type NameInput struct {
	Name string `json:"name" validate:"required"`
}

// DepartementInput is the create/update payload of a departement.
type DepartementInput struct {
	Name   string `json:"name" validate:"required"`
	Region int64  `json:"region" validate:"required"`
}

// ArrondissementInput is the create/update payload of an arrondissement.
type ArrondissementInput struct {
	Name        string `json:"name" validate:"required"`
	Departement int64  `json:"departement" validate:"required"`
}

// TypeStructureInput is the create/update payload of a type-structure.
type TypeStructureInput struct {
	Name   string `json:"name" validate:"required"`
	Parent *int64 `json:"parent"`
}

// StructureInput is the create/update payload of a structure. The counters
// are optional and default to zero.
type StructureInput struct {
	Name              string `json:"name" validate:"required"`
	Adresse           string `json:"adresse" validate:"required"`
	Contacts          string `json:"contacts" validate:"required"`
	Type              int64  `json:"type" validate:"required"`
	Arrondissement    int64  `json:"arrondissement" validate:"required"`
	Parent            *int64 `json:"parent"`
	NombreCommunicant *int   `json:"nombre_communicant" validate:"omitempty,gte=0"`
	NombreBaptise     *int   `json:"nombre_baptise" validate:"omitempty,gte=0"`
}

// FonctionLinkInput is the payload linking a fonction to a type-structure.
type FonctionLinkInput struct {
	Nombre *int `json:"nombre" validate:"required,gte=0"`
}

// ConsecrationInput records where and when a membre was consecrated. The
// date is checked separately so that its failure carries its own message.
type ConsecrationInput struct {
	Paroisse         int64  `json:"paroisse" validate:"required"`
	DateConsecration string `json:"date_consecration" validate:"required"`
}

// AffectationInput assigns a membre to a structure with a fonction.
type AffectationInput struct {
	StructureID     int64  `json:"structure_id" validate:"required"`
	FonctionID      int64  `json:"fonction_id" validate:"required"`
	DateAffectation string `json:"date_affectation" validate:"required"`
	Actuel          bool   `json:"actuel"`
}
