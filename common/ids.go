package common

import (
	"github.com/fundwit/go-commons/types"
	"github.com/google/uuid"
	"github.com/sony/sonyflake"
)

func NextId(idWorker *sonyflake.Sonyflake) types.ID {
	id, err := idWorker.NextID()
	if err != nil {
		panic(err)
	}
	return types.ID(id)
}

// NextUUID returns a random identifier for records whose key must never
// collide across independent requests.
func NextUUID() string {
	return uuid.New().String()
}
