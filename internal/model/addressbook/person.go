package addressbook

// Person is a single address book entry. The canonical URI of a person is
// derived from its ID at response time and is never stored here.
type Person struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}
