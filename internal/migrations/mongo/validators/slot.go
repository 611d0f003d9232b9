package validators

import "go.mongodb.org/mongo-driver/bson"

var SlotValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"owner_id",
			"weekday",
			"start_time",
			"end_time",
			"created_at",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "objectId",
			},

			"owner_id": bson.M{
				"bsonType":  "string",
				"minLength": 1,
				"maxLength": 100,
			},

			"weekday": bson.M{
				"bsonType": []string{"int", "long"},
				"minimum":  1,
				"maximum":  7,
			},

			"start_time": bson.M{
				"bsonType": []string{"int", "long"},
				"minimum":  0,
				"maximum":  86400,
			},

			"end_time": bson.M{
				"bsonType": []string{"int", "long"},
				"minimum":  0,
				"maximum":  86400,
			},

			"time_zone": bson.M{
				"bsonType": "string",
			},

			"created_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}
