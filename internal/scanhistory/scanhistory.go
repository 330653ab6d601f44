package scanhistory

// ScannedCard is one analyzed card in the device's scan history. The JSON
// field names match the blob the web client used to write, so histories
// persisted before the port still decode.
type ScannedCard struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Type           string `json:"type"`
	Rarity         string `json:"rarity"`
	Set            string `json:"set"`
	Number         string `json:"number"`
	Condition      string `json:"condition,omitempty"`
	EstimatedValue string `json:"estimatedValue,omitempty"`
	Image          string `json:"image,omitempty"`
	ScannedAt      string `json:"scannedAt"`
}

// NewCard is the caller-supplied part of a record; the store assigns the id
// and capture timestamp.
type NewCard struct {
	Name           string
	Type           string
	Rarity         string
	Set            string
	Number         string
	Condition      string
	EstimatedValue string
	Image          string
}
