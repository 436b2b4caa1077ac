/* models.go
 * This file contain the filters and helper functions that relate to DB objects. The documents themselves are the
 * structs in the shared package
 * Authors: Zachary Bower
 */

package store

import (
	"gaming-companion/api/shared"

	"go.mongodb.org/mongo-driver/bson"
)

func matchesFilter(userID string, gameType shared.GameType) bson.M {
	return bson.M{"userid": userID, "gametype": gameType}
}

func matchFilter(userID string, matchID string) bson.M {
	return bson.M{"_id": matchID, "userid": userID}
}

func profileFilter(userID string) bson.M {
	return bson.M{"userid": userID}
}

func roundsFilter(userID string, matchID string) bson.M {
	return bson.M{"userid": userID, "matchid": matchID}
}
