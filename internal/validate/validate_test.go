package validate

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

func validMembre() MembreInput {
	return MembreInput{
		UserID:         1,
		FullName:       "Jean Ekwalla",
		Genre:          "M",
		DOB:            "1980-04-12",
		POB:            "Douala",
		Mother:         "Marie",
		Father:         "Paul",
		StatusM:        "M",
		Conjoint:       "Esther",
		NbEnfant:       intPtr(0),
		Contacts:       "+237 690 00 00 00",
		Adresse:        "Akwa",
		Arrondissement: 3,
	}
}

func TestUser(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		input      UserInput
		wantFields []string
	}{
		{
			name:  "valid",
			input: UserInput{Email: "jean@example.com", Password: "Passw0rd!", UserName: "jean"},
		},
		{
			name:       "all missing",
			input:      UserInput{},
			wantFields: []string{"email", "password", "username"},
		},
		{
			name:       "invalid email",
			input:      UserInput{Email: "not-an-email", Password: "Passw0rd!", UserName: "jean"},
			wantFields: []string{"email"},
		},
		{
			name:       "weak password",
			input:      UserInput{Email: "jean@example.com", Password: "password", UserName: "jean"},
			wantFields: []string{"password"},
		},
		{
			name:       "short user name",
			input:      UserInput{Email: "jean@example.com", Password: "Passw0rd!", UserName: "j"},
			wantFields: []string{"username"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			errs := User(tc.input)
			if len(tc.wantFields) == 0 {
				assert.Nil(t, errs)
				return
			}
			require.NotNil(t, errs)
			assert.Len(t, errs, len(tc.wantFields))
			for _, f := range tc.wantFields {
				assert.Contains(t, errs, f)
			}
		})
	}
}

func TestUser_MissingMessages(t *testing.T) {
	t.Parallel()

	errs := User(UserInput{Password: "Passw0rd!", UserName: "jean"})
	assert.Equal(t, FieldErrors{"email": "email is required"}, errs)
}

func TestEmailAndPassword(t *testing.T) {
	t.Parallel()

	assert.Nil(t, EmailAndPassword("jean@example.com", "Passw0rd!"))

	errs := EmailAndPassword("", "")
	assert.Contains(t, errs, "email")
	assert.Contains(t, errs, "password")

	errs = EmailAndPassword("jean@example.com", "short")
	assert.Equal(t, PasswordMessage, errs["password"])
}

func TestMembre(t *testing.T) {
	t.Parallel()

	assert.Nil(t, Membre(validMembre()))

	errs := Membre(MembreInput{})
	for _, f := range []string{
		"userid", "fullname", "genre", "dob", "pob", "mother", "father",
		"statusm", "conjoint", "nbenfant", "contacts", "adresse", "arrondissement",
	} {
		assert.Contains(t, errs, f)
	}
	assert.Len(t, errs, 13)

	bad := validMembre()
	bad.DOB = "not a date"
	errs = Membre(bad)
	assert.Equal(t, FieldErrors{"dob": "dob must be a valid date/datetime"}, errs)

	bad = validMembre()
	bad.Genre = "X"
	errs = Membre(bad)
	assert.Contains(t, errs, "genre")
}

func TestStrongPassword(t *testing.T) {
	t.Parallel()

	tests := map[string]bool{
		"Passw0rd!":                      true,
		"Aa1@aaaa":                       true,
		"Aa1@" + strings.Repeat("a", 16): true,
		"Aa1@":                           false,
		"Aa1@" + strings.Repeat("a", 17): false,
		"password1!":                     false,
		"PASSWORD1!":                     false,
		"Password!!":                     false,
		"Password12":                     false,
		"Passw0rd!^":                     false,
		"Pässw0rd!":                      false,
	}
	for input, want := range tests {
		assert.Equal(t, want, StrongPassword(input), input)
	}
}

func TestDateFormat(t *testing.T) {
	t.Parallel()

	for _, s := range []string{"2000-01-15", "January 15, 2000", "2000-01-15T10:00:00Z", "01/15/2000"} {
		assert.True(t, DateFormat(s), s)
	}
	for _, s := range []string{"", "   ", "not a date", "hello world"} {
		assert.False(t, DateFormat(s), s)
	}

	d, err := ParseDate("2000-01-15")
	require.NoError(t, err)
	assert.Equal(t, 2000, d.Year())
	assert.Equal(t, 15, d.Day())
}

func TestDecodeError(t *testing.T) {
	t.Parallel()

	var in MembreInput
	err := json.Unmarshal([]byte(`{"arrondissement":"three"}`), &in)
	require.Error(t, err)
	assert.Equal(t, FieldErrors{"arrondissement": "arrondissement must be an integer"}, DecodeError(err))

	var u UserInput
	err = json.Unmarshal([]byte(`{"email":12}`), &u)
	require.Error(t, err)
	assert.Equal(t, FieldErrors{"email": "email must be a string"}, DecodeError(err))

	err = json.Unmarshal([]byte(`{"user_name":["jean"]}`), &u)
	require.Error(t, err)
	assert.Equal(t, FieldErrors{"username": "username must be a string"}, DecodeError(err))

	err = json.Unmarshal([]byte(`{`), &u)
	require.Error(t, err)
	assert.Contains(t, DecodeError(err), "body")
}

func TestResourceInputs(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		input      any
		wantFields []string
	}{
		{name: "name missing", input: NameInput{}, wantFields: []string{"name"}},
		{name: "departement without region", input: DepartementInput{Name: "Wouri"}, wantFields: []string{"region"}},
		{name: "arrondissement ok", input: ArrondissementInput{Name: "Douala I", Departement: 1}},
		{name: "type-structure without parent ok", input: TypeStructureInput{Name: "Paroisse"}},
		{
			name:       "structure missing fields",
			input:      StructureInput{Name: "Akwa"},
			wantFields: []string{"adresse", "contacts", "type", "arrondissement"},
		},
		{
			name: "structure negative counter",
			input: StructureInput{
				Name: "Akwa", Adresse: "Rue 1", Contacts: "690", Type: 1, Arrondissement: 1,
				NombreBaptise: intPtr(-1),
			},
			wantFields: []string{"nombre_baptise"},
		},
		{name: "link zero positions ok", input: FonctionLinkInput{Nombre: intPtr(0)}},
		{name: "link missing nombre", input: FonctionLinkInput{}, wantFields: []string{"nombre"}},
		{name: "consecration missing", input: ConsecrationInput{}, wantFields: []string{"paroisse", "date_consecration"}},
		{
			name:       "affectation missing",
			input:      AffectationInput{Actuel: true},
			wantFields: []string{"structure_id", "fonction_id", "date_affectation"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := Struct(tt.input)
			if len(tt.wantFields) == 0 {
				assert.Nil(t, errs)
				return
			}
			require.Len(t, errs, len(tt.wantFields))
			for _, f := range tt.wantFields {
				assert.Contains(t, errs, f)
			}
		})
	}
}
