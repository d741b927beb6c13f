package validators

import "go.mongodb.org/mongo-driver/bson"

// VisitorSessionValidator only pins types. Sessions are best-effort analytics
// and incomplete events are stored as sent.
var VisitorSessionValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"timestamp",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"sessionId": bson.M{"bsonType": "string"},
			"page":      bson.M{"bsonType": "string"},
			"eventType": bson.M{"bsonType": "string"},
			"timestamp": bson.M{"bsonType": "date"},
			"userAgent": bson.M{"bsonType": "string"},
			"ip":        bson.M{"bsonType": "string"},
		},
	},
}
