package validators

import "go.mongodb.org/mongo-driver/bson"

// BookingValidator enforces the five identifying fields as non-empty strings.
// Defaults for message and device are applied before insert, so they are
// required as well.
var BookingValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"guest_name",
			"contact",
			"check_in",
			"check_out",
			"room_type",
			"message",
			"device",
			"timestamp",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "objectId",
			},

			"guest_name": bson.M{
				"bsonType":  "string",
				"minLength": 1,
			},

			"contact": bson.M{
				"bsonType":  "string",
				"minLength": 1,
			},

			"check_in": bson.M{
				"bsonType":  "string",
				"minLength": 1,
			},

			"check_out": bson.M{
				"bsonType":  "string",
				"minLength": 1,
			},

			"room_type": bson.M{
				"bsonType":  "string",
				"minLength": 1,
			},

			"message": bson.M{
				"bsonType": "string",
			},

			"device": bson.M{
				"bsonType": "string",
			},

			"timestamp": bson.M{
				"bsonType": "date",
			},
		},
	},
}
