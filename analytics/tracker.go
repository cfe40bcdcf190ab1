package analytics

import (
	"context"
	"encoding/json"
	"fmt"
	"ggdb-api/helpers"
	"os"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/influxdata/influxdb-client-go/api"
	"github.com/twinj/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	influxdb2 "github.com/influxdata/influxdb-client-go"
)

// Tracker gathers page visits (game profiles).
// Events are buffered in redis, replicated to MongoDB for per-object queries
// and written to influx as a time series for the traffic dashboard.
type Tracker struct {
	redisClient *redis.Client
	collection  *mongo.Collection
	influxWrite api.WriteAPIBlocking
	GetUserName func(ID string) (string, error)
}

// VisitCache is the list item in the cache (redis)
type VisitCache struct {
	VisitTS time.Time `json:"visitTS"`
	UserID  string    `json:"userID"`
}

// Visit is the final data structure to be stored in the database (MongoDB)
// and sent to the client when requested; hence "the model"
type Visit struct {
	ID         primitive.ObjectID `json:"-" bson:"_id"`
	VisitTS    time.Time          `json:"visitTS" bson:"visitTS"`
	ObjectType string             `json:"-" bson:"objectType"`
	ObjectID   primitive.ObjectID `json:"-" bson:"objectID"`
	UserID     primitive.ObjectID `json:"userID" bson:"userID,omitempty"`
	UserName   string             `json:"userName" bson:"userName,omitempty"`
}

// SetConnections initializes the instance
func (t *Tracker) SetConnections(redisClient *redis.Client, mongoCollection *mongo.Collection, influxWrite api.WriteAPIBlocking) {
	t.redisClient = redisClient
	t.collection = mongoCollection
	t.influxWrite = influxWrite
}

// SaveVisitor stores event data in the cache and the time series
func (t *Tracker) SaveVisitor(objectType string, objectID string, userID string) {

	if os.Getenv("USE_ANALYTICS") != "YES" {
		return
	}

	var ctx = context.Background()

	key := objectType + "_" + objectID + "_" + uuid.NewV4().String()

	profileVisit := VisitCache{
		VisitTS: time.Now(),
		UserID:  userID,
	}

	b, err := json.Marshal(profileVisit)
	if err != nil {
		fmt.Println(err) // ToDO: use a logger
		return
	}

	err = t.redisClient.Set(ctx, key, b, 0).Err()
	if err != nil {
		fmt.Println(err)
		return
	}

	// time series for the traffic dashboard (fire & forget)
	if t.influxWrite != nil {
		point := influxdb2.NewPoint("visits",
			map[string]string{"objectType": objectType, "objectID": objectID},
			map[string]interface{}{"count": 1},
			profileVisit.VisitTS)

		err = t.influxWrite.WritePoint(ctx, point)
		if err != nil {
			fmt.Println(err)
		}
	}
}

// GetVisits counts the visits of an object since a given time
func (t *Tracker) GetVisits(objectID string, startDT time.Time) (int64, error) {

	if os.Getenv("USE_ANALYTICS") != "YES" {
		return -1, nil
	}

	// 1. count documents in mongoDB
	oid, err := primitive.ObjectIDFromHex(objectID)
	if err != nil {
		return 0, helpers.WrapError(err, helpers.FuncName())
	}

	filter := bson.D{
		{Key: "visitTS", Value: bson.D{
			{Key: "$gte", Value: startDT},
		}},
		{Key: "objectID", Value: oid},
	}

	opts := options.Count().SetMaxTime(2 * time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cnt, err := t.collection.CountDocuments(ctx, filter, opts)
	if err != nil {
		return 0, helpers.WrapError(err, helpers.FuncName())
	}

	// 2. also check for data in the cache that's not yet replicated (optional)
	allKeys, err := t.getKeys("*" + objectID + "*")
	if err != nil {
		fmt.Println(err)
	}

	if allKeys != nil {
		cnt += int64(len(allKeys))
	}

	return cnt, nil
}

// ListVisitors returns the most recent visitors of an object
// (shown to creators and moderators on the stats page)
func (t *Tracker) ListVisitors(objectID string, startDT time.Time) ([]Visit, error) {

	if os.Getenv("USE_ANALYTICS") != "YES" {
		return nil, nil
	}

	oid, err := primitive.ObjectIDFromHex(objectID)
	if err != nil {
		return nil, helpers.WrapError(err, helpers.FuncName())
	}

	// build list: select max(visitTS), userName where oid=X and visitTS>=Y
	// group by user order by maxTS desc, limit 5
	matchStage := bson.D{
		{Key: "$match", Value: bson.D{
			{Key: "$and", Value: bson.A{
				bson.D{{Key: "objectID", Value: oid}},
				bson.D{{Key: "visitTS", Value: bson.D{
					{Key: "$gte", Value: startDT},
				}}},
			}},
		}},
	}

	groupStage := bson.D{
		{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$userID"},
			{Key: "lastVisit", Value: bson.D{
				{Key: "$max", Value: "$visitTS"},
			},
			}},
		}}

	sortStage := bson.D{{Key: "$sort", Value: bson.D{{Key: "lastVisit", Value: -1}}}} // desc
	limitStage := bson.D{{Key: "$limit", Value: 5}}

	opts := options.Aggregate().SetMaxTime(5 * time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cursor, err := t.collection.Aggregate(ctx, mongo.Pipeline{
		matchStage,
		groupStage,
		sortStage,
		limitStage}, opts)
	if err != nil {
		return nil, helpers.WrapError(err, helpers.FuncName())
	}

	var visitsDB []bson.M
	if err = cursor.All(ctx, &visitsDB); err != nil {
		return nil, helpers.WrapError(err, helpers.FuncName())
	}

	var visits []Visit
	var visit Visit

	for _, v := range visitsDB {
		if oid, ok := v["_id"].(primitive.ObjectID); ok {
			visit.UserID = oid
			if t.GetUserName != nil {
				visit.UserName, _ = t.GetUserName(oid.Hex())
			}
		}
		if ts, ok := v["lastVisit"].(primitive.DateTime); ok {
			visit.VisitTS = ts.Time()
		}

		visits = append(visits, visit)
	}

	return visits, nil
}

// Replicate moves the buffered visits from the cache (redis) into the
// archive (mongo). Called by the housekeeping ticker and the monitor API.
func (t *Tracker) Replicate() {

	if os.Getenv("USE_ANALYTICS") != "YES" {
		return
	}

	var ctx = context.Background()

	allKeys, err := t.getKeys("*")
	if err != nil {
		fmt.Println(err)
		return
	}

	if allKeys == nil {
		return
	}

	var docs []interface{}
	for _, key := range allKeys {
		val, err := t.redisClient.Get(ctx, key).Result()
		if err != nil {
			fmt.Println(err) // ToDO: use a logger
			return
		}

		var vc VisitCache
		if err := json.Unmarshal([]byte(val), &vc); err != nil {
			fmt.Println(err)
			continue
		}

		objectType, objectID, ok := parseVisitKey(key)
		if !ok {
			continue // foreign key in the cache db, leave it alone
		}

		visit := Visit{
			ID:         primitive.NewObjectID(),
			VisitTS:    vc.VisitTS,
			ObjectType: objectType,
			ObjectID:   objectID,
		}

		// anonymous visits keep the nil user id
		if oid, err := primitive.ObjectIDFromHex(vc.UserID); err == nil {
			visit.UserID = oid
			if t.GetUserName != nil {
				visit.UserName, _ = t.GetUserName(vc.UserID)
			}
		}

		docs = append(docs, visit)
	}

	if docs == nil {
		return
	}

	dbCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err = t.collection.InsertMany(dbCtx, docs)
	if err != nil {
		fmt.Println(err)
		return
	}

	// clear processed keys only after the archive write succeeded
	for _, key := range allKeys {
		if _, err := t.redisClient.Del(ctx, key).Result(); err != nil {
			fmt.Println(err)
			return
		}
	}
}

// parseVisitKey splits a cache key (objectType_objectID_uuid) into its parts
func parseVisitKey(key string) (string, primitive.ObjectID, bool) {

	parts := strings.Split(key, "_")
	if len(parts) < 3 {
		return "", primitive.NilObjectID, false
	}

	oid, err := primitive.ObjectIDFromHex(parts[1])
	if err != nil {
		return "", primitive.NilObjectID, false
	}

	return parts[0], oid, true
}

// internal helper to scan cache keys matching a pattern
func (t *Tracker) getKeys(pattern string) ([]string, error) {

	var cursor uint64
	var allKeys []string
	var keys []string
	var err error

	var ctx = context.Background()

	for {
		keys, cursor, err = t.redisClient.Scan(ctx, cursor, pattern, 10).Result()
		if err != nil {
			return nil, err
		}

		allKeys = append(allKeys, keys...)

		if cursor == 0 {
			break
		}
	}

	return allKeys, nil
}
