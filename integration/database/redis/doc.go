// Package redis connects livemodel channels across processes through Redis.
//
// A Mirror follows a channel and writes every accepted value to Redis: the
// latest snapshot is stored under the model's key and the same bytes are
// published on a topic with the same name. A Source, ingested into a channel in
// another process, subscribes to that topic, emits the stored snapshot and then
// every published update. Together they keep the channels for one identifier
// in sync across a fleet.
//
// # Key Features
//
//   - Connect: Creates a Redis client with exponential retry logic and connection verification; failed attempts are logged when WithLogger is passed
//   - Healthcheck: Returns a health check function for monitoring Redis connectivity
//   - NewMirror: Writes a channel's values to a key and pub/sub topic
//   - NewSource: Streams a model's snapshots from Redis into a channel
//   - JSON and CBOR codecs for model payloads
//
// # Configuration
//
// All configuration is handled through the Config struct with environment variable mapping:
//
//	type Config struct {
//		ConnectionURL  string        `env:"REDIS_URL,required" envDefault:"redis://localhost:6379/0"`
//		RetryAttempts  int           `env:"REDIS_RETRY_ATTEMPTS" envDefault:"3"`
//		RetryInterval  time.Duration `env:"REDIS_RETRY_INTERVAL" envDefault:"5s"`
//		ConnectTimeout time.Duration `env:"REDIS_CONNECT_TIMEOUT" envDefault:"30s"`
//		KeyPrefix      string        `env:"LIVEMODEL_REDIS_PREFIX" envDefault:"livemodel"`
//		Codec          string        `env:"LIVEMODEL_REDIS_CODEC" envDefault:"json"`
//	}
//
// Config.Options turns KeyPrefix and Codec into options for NewSource and NewMirror.
//
// # Usage Example
//
//	cfg, err := redis.LoadConfig()
//	if err != nil {
//		log.Fatal(err)
//	}
//	client, err := redis.Connect(ctx, cfg, redis.WithLogger(log))
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer client.Close()
//
//	opts, err := cfg.Options()
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	ch, _ := livemodel.Get[*Item]("sku-42")
//
//	// Publish local changes for other instances.
//	mirror, err := redis.NewMirror(client, ch, opts...)
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer mirror.Close()
//
//	// Follow changes made elsewhere, skipping our own writes.
//	opts = append(opts, redis.WithIgnoreOrigins(mirror.Origin()))
//	future, err := ch.Ingest(ctx, redis.NewSource[*Item](client, "sku-42", opts...))
//
// Ingesting another source, or calling Publish, supersedes the Redis source:
// its subscription is closed and its future resolves with livemodel.ErrSuperseded.
//
// # Wire Format
//
// Keys and topics are "<prefix>:<id>". Values are JSON envelopes:
//
//	{"origin": "<mirror origin>", "payload": "<codec bytes, base64>"}
//
// The origin lets a process that both mirrors and follows a channel drop its
// own echoes. Pub/sub delivery is at-most-once; the stored snapshot lets a
// late subscriber catch up.
//
// # Error Handling
//
// The package defines domain-specific errors that can be checked using errors.Is():
//
//   - ErrFailedToParseRedisConnString: Returned when the Redis connection URL is malformed
//   - ErrRedisNotReady: Returned when Redis doesn't become ready within the timeout period
//   - ErrEmptyConnectionURL: Returned when no connection URL is provided
//   - ErrHealthcheckFailed: Returned when health check ping fails
//   - ErrUnknownCodec: Returned for a codec name other than "json" or "cbor"
//   - ErrSubscribe, ErrSnapshot: A source could not subscribe or read the snapshot
//   - ErrDecode: A source received a message it could not decode
//   - ErrNilChannel: NewMirror was given a nil channel
//
// Source errors are reported on the future returned by Channel.Ingest. Mirror
// write failures are logged and available through Mirror.Err.
package redis
