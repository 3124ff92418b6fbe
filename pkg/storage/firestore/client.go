package firestore

import (
	"cloud.google.com/go/firestore"

	"github.com/neotrasher/fitness-dashboard/pkg/types"
)

// Client exposes the typed collections of the activity store.
//
// Layout:
//
//	athletes/{athleteId}
//	athletes/{athleteId}/activities/{activityId}
//	athletes/{athleteId}/goals/{goalId}
type Client struct {
	fs *firestore.Client
}

func NewClient(client *firestore.Client) *Client {
	return &Client{fs: client}
}

func (c *Client) Close() error {
	return c.fs.Close()
}

func (c *Client) Athletes() *Collection[types.Athlete] {
	return &Collection[types.Athlete]{
		Ref: c.fs.Collection("athletes"),
	}
}

// Activities are sub-collections of Athletes: athletes/{id}/activities/{id}
func (c *Client) Activities(athleteID string) *Collection[types.Activity] {
	return &Collection[types.Activity]{
		Ref: c.fs.Collection("athletes").Doc(athleteID).Collection("activities"),
	}
}

// Goals are sub-collections of Athletes: athletes/{id}/goals/{id}
func (c *Client) Goals(athleteID string) *Collection[types.Goal] {
	return &Collection[types.Goal]{
		Ref: c.fs.Collection("athletes").Doc(athleteID).Collection("goals"),
	}
}
