package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gridwalk/gridwalk-api/api"
	api_i "github.com/gridwalk/gridwalk-api/api/i"
	"github.com/gridwalk/gridwalk-api/api/identity"
	"github.com/gridwalk/gridwalk-api/api/realtime"
	worldapi "github.com/gridwalk/gridwalk-api/api/world"
	"github.com/gridwalk/gridwalk-api/config"
	"github.com/gridwalk/gridwalk-api/game"
	"github.com/gridwalk/gridwalk-api/infrastruture/repo"
	"github.com/gridwalk/gridwalk-api/infrastruture/sortedstorage"
	"github.com/gridwalk/gridwalk-api/infrastruture/token"
	"github.com/gridwalk/gridwalk-api/service"
	"github.com/gridwalk/gridwalk-api/service/i"
	"github.com/gridwalk/gridwalk-api/worldgen"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const joinQueueTTLSeconds = 1800

// Global variables for dependencies
var (
	mongoClient     *mongo.Client
	redisClient     *redis.Client
	userRepo        i.UserRepo
	jwtTokenizer    i.Tokenizer
	authService     i.Authenticator
	authController  api_i.Controller
	worldGrid       *game.Grid
	joinQueue       i.SortedQueue
	eventHub        *realtime.Hub
	worldManager    *service.WorldManager
	worldController api_i.Controller
	router          *api.Router
)

func logInfo(format string, args ...interface{}) {
	log.Printf("%s[INFO]%s "+format, append([]interface{}{config.LogInfoColor, config.LogColorReset}, args...)...)
}

func logFatal(format string, args ...interface{}) {
	log.Fatalf("%s[ERROR]%s "+format, append([]interface{}{config.LogErrorColor, config.LogColorReset}, args...)...)
}

func initMongo(ctx context.Context) {
	uri := fmt.Sprintf("mongodb://%s:%s@%s:%v", config.Envs.DBUser, config.Envs.DBPassword, config.Envs.DBHost, config.Envs.DBPort)

	clientOptions := options.Client().ApplyURI(uri)
	var err error
	mongoClient, err = mongo.Connect(ctx, clientOptions)
	if err != nil {
		logFatal("Failed to connect to MongoDB: %v", err)
	}
	if err = mongoClient.Ping(ctx, nil); err != nil {
		logFatal("MongoDB ping failed: %v", err)
	}
	logInfo("Connected to MongoDB")
}

func initRedis(ctx context.Context) {
	redisClient = redis.NewClient(&redis.Options{
		Addr: fmt.Sprintf("%s:%d", config.Envs.RedisHost, config.Envs.RedisPort),
	})
	if err := redisClient.Ping(ctx).Err(); err != nil {
		logFatal("Redis ping failed: %v", err)
	}
	logInfo("Connected to Redis")
}

func initUserRepo(client *mongo.Client) {
	userRepo = repo.NewUserRepo(client, config.Envs.DBName, "users")
	logInfo("User repository initialized")
}

func initJWTTokenizer() {
	jwtTokenizer = token.NewJwtService(config.Envs.JWTSecret, config.Envs.JWTIssuer)
	logInfo("JWT Tokenizer initialized")
}

func initAuthService() {
	var err error
	authService, err = service.NewAuthService(userRepo, jwtTokenizer)
	if err != nil {
		logFatal("Creating auth service: %v", err)
	}
	logInfo("Auth service initialized")
}

func initAuthController() {
	authController = identity.NewIdentityServer(authService)
	logInfo("Auth controller initialized")
}

func initWorldGrid() {
	var err error
	seed := time.Now().UnixNano()
	worldGrid, err = worldgen.NewMazeGrid(config.Envs.WorldWidth, config.Envs.WorldHeight, seed)
	if err != nil {
		logFatal("Generating world grid: %v", err)
	}
	logInfo("World grid generated: %dx%d tiles", worldGrid.Width(), worldGrid.Height())
}

func initJoinQueue() {
	var err error
	joinQueue, err = sortedstorage.NewRedisSortedQueue(redisClient, joinQueueTTLSeconds)
	if err != nil {
		logFatal("Creating join queue: %v", err)
	}
	logInfo("Join queue initialized")
}

func initEventHub() {
	eventHub = realtime.NewHub()
	go eventHub.Run()
	logInfo("Event hub running")
}

func initWorldManager() {
	var err error
	worldManager, err = service.NewWorldManager(&service.WorldConfig{
		Grid:        worldGrid,
		Capacity:    config.Envs.WorldCapacity,
		StepDelay:   time.Duration(config.Envs.AgentStepMillis) * time.Millisecond,
		JoinQueue:   joinQueue,
		Broadcaster: eventHub,
		Logger:      log.New(os.Stdout, "[WORLD] ", log.LstdFlags),
	})
	if err != nil {
		logFatal("Creating world manager: %v", err)
	}
	go worldManager.Start()
	logInfo("World manager running")
}

func initWorldController() {
	var err error
	worldController, err = worldapi.NewWorldController(worldManager)
	if err != nil {
		logFatal("Creating world controller: %v", err)
	}
	logInfo("World controller initialized")
}

func initRouter(t i.Tokenizer) {
	gin.SetMode(config.Envs.GinMode)
	router = api.NewRouter(api.Config{
		Addr:                    fmt.Sprintf("%s:%v", config.Envs.HostIP, config.Envs.RESTPort),
		BaseURL:                 "/api",
		Controllers:             []api_i.Controller{authController, worldController, eventHub},
		AuthorizationMiddleware: identity.Authoriz(t),
	})
	logInfo("Router initialized")
}

func main() {
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel() // Ensure the context is always canceled

	initMongo(ctx)
	defer func() {
		_ = mongoClient.Disconnect(ctx)
	}()

	initRedis(ctx)
	defer redisClient.Close()

	initUserRepo(mongoClient)
	initJWTTokenizer()
	initAuthService()
	initAuthController()
	initWorldGrid()
	initJoinQueue()
	initEventHub()
	initWorldManager()
	defer worldManager.Shutdown()

	initWorldController()
	initRouter(jwtTokenizer)

	// Run HTTP server
	if err := router.Run(); err != nil {
		logFatal("Starting server: %v", err)
	}
}
