package types

// PubSubMessage is the payload of a Pub/Sub event via Cloud Event.
type PubSubMessage struct {
	Message struct {
		Data       []byte            `json:"data"`
		Attributes map[string]string `json:"attributes"`
	} `json:"message"`
}

// StorageObjectData is the payload of a GCS object-finalized event.
type StorageObjectData struct {
	Bucket string `json:"bucket"`
	Name   string `json:"name"`
}
