package models

// Address is stored as a JSON document on users and clients.
type Address struct {
	Street       string `json:"street,omitempty"`
	Number       string `json:"number,omitempty"`
	Complement   string `json:"complement,omitempty"`
	Neighborhood string `json:"neighborhood,omitempty"`
	City         string `json:"city,omitempty"`
	State        string `json:"state,omitempty"`
	ZipCode      string `json:"zipCode,omitempty"`
}

func (a Address) IsZero() bool {
	return a == Address{}
}

// Ptr returns nil for an empty address so it serializes as null.
func (a Address) Ptr() *Address {
	if a.IsZero() {
		return nil
	}
	return &a
}
