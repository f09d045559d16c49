package models

const (
  FieldName       PersonalField = "name"
  FieldPhone      PersonalField = "phone"
  FieldEmail      PersonalField = "email"
  FieldAge        PersonalField = "age"
  FieldCity       PersonalField = "city"
  FieldCountry    PersonalField = "country"
  FieldEducation  PersonalField = "education"
  FieldExperience PersonalField = "experience"
)

type PersonalField string

// PersonalFields is the fixed collection order. It is the same for every
// flow, so the personal details sub-flow is fully shared between them.
var PersonalFields = []PersonalField{
  FieldName,
  FieldPhone,
  FieldEmail,
  FieldAge,
  FieldCity,
  FieldCountry,
  FieldEducation,
  FieldExperience,
}

type PersonalDetails struct {
  Name       string  `bson:"name" json:"name"`
  Phone      string  `bson:"phone" json:"phone"`
  Email      string  `bson:"email" json:"email"`
  Age        float64 `bson:"age" json:"age"`
  City       string  `bson:"city" json:"city"`
  Country    string  `bson:"country" json:"country"`
  Education  string  `bson:"education" json:"education"`
  Experience float64 `bson:"experience" json:"experience"`
}
