package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"plinko-fair-backend/internal/config"
	"plinko-fair-backend/internal/models"

	"github.com/redis/go-redis/v9"
)

type RedisService struct {
	client *redis.Client
	ctx    context.Context
}

func NewRedisService(cfg *config.Config) (*RedisService, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisURL,
		Password: cfg.RedisPass,
		DB:       cfg.RedisDB,
	})

	ctx := context.Background()

	_, err := client.Ping(ctx).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %v", err)
	}

	service := &RedisService{
		client: client,
		ctx:    ctx,
	}

	return service, nil
}

func (s *RedisService) Close() error {
	return s.client.Close()
}

func (s *RedisService) StorePlayerSession(session *models.PlayerSession, expiry time.Duration) error {
	key := fmt.Sprintf(KeyPlayerSession, session.PlayerID, session.SessionID)

	data, err := json.Marshal(session)
	if err != nil {
		return err
	}

	return s.client.Set(s.ctx, key, data, expiry).Err()
}

func (s *RedisService) GetPlayerSession(playerID, sessionID string) (*models.PlayerSession, error) {
	key := fmt.Sprintf(KeyPlayerSession, playerID, sessionID)

	data, err := s.client.Get(s.ctx, key).Result()
	if err != nil {
		return nil, err
	}

	var session models.PlayerSession
	err = json.Unmarshal([]byte(data), &session)
	if err != nil {
		return nil, err
	}

	session.LastAccessed = time.Now()
	updatedData, _ := json.Marshal(session)
	s.client.Set(s.ctx, key, updatedData, TTLPlayerSession)

	return &session, nil
}

func (s *RedisService) DeletePlayerSession(playerID, sessionID string) error {
	key := fmt.Sprintf(KeyPlayerSession, playerID, sessionID)
	return s.client.Del(s.ctx, key).Err()
}

func (s *RedisService) SaveRound(round *models.Round) error {
	roundKey := fmt.Sprintf(KeyRound, round.ID)

	data, err := json.Marshal(round)
	if err != nil {
		return fmt.Errorf("failed to marshal round: %v", err)
	}

	if err := s.client.Set(s.ctx, roundKey, data, TTLRound).Err(); err != nil {
		return fmt.Errorf("failed to save round: %v", err)
	}

	playerRoundsKey := fmt.Sprintf(KeyPlayerRounds, round.PlayerID)
	score := float64(round.CreatedAt.Unix())
	if err := s.client.ZAdd(s.ctx, playerRoundsKey, redis.Z{
		Score:  score,
		Member: round.ID,
	}).Err(); err != nil {
		return fmt.Errorf("failed to add to player rounds: %v", err)
	}

	// Keep only the last 100 rounds per player
	s.client.ZRemRangeByRank(s.ctx, playerRoundsKey, 0, -101)
	s.client.Expire(s.ctx, playerRoundsKey, TTLRound)

	return nil
}

func (s *RedisService) GetRound(roundID string) (*models.Round, error) {
	key := fmt.Sprintf(KeyRound, roundID)

	data, err := s.client.Get(s.ctx, key).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, fmt.Errorf("round not found: %s", roundID)
		}
		return nil, fmt.Errorf("failed to get round: %v", err)
	}

	var round models.Round
	if err := json.Unmarshal([]byte(data), &round); err != nil {
		return nil, fmt.Errorf("failed to unmarshal round: %v", err)
	}

	return &round, nil
}

func (s *RedisService) UpdateRound(round *models.Round) error {
	existing, err := s.GetRound(round.ID)
	if err != nil || existing == nil {
		return err
	}

	data, err := json.Marshal(round)
	if err != nil {
		return fmt.Errorf("failed to marshal updated round: %v", err)
	}

	key := fmt.Sprintf(KeyRound, round.ID)
	return s.client.Set(s.ctx, key, data, TTLRound).Err()
}

// claimRoundScript flips a round from committed to played atomically so the
// play phase runs exactly once; a second play against the same round errors
// inside redis instead of racing.
var claimRoundScript = redis.NewScript(`
	local key = KEYS[1]

	local data = redis.call("GET", key)
	if not data then
		return redis.error_reply("round not found")
	end

	local round = cjson.decode(data)

	if round.status ~= "committed" then
		return redis.error_reply("round already played")
	end

	round.status = "played"

	local updated = cjson.encode(round)
	redis.call("SET", key, updated)

	return "OK"
`)

func (s *RedisService) ClaimRoundForPlay(roundID string) error {
	key := fmt.Sprintf(KeyRound, roundID)
	return claimRoundScript.Run(s.ctx, s.client, []string{key}).Err()
}

func (s *RedisService) GetPlayerRounds(playerID string, limit int64) ([]*models.Round, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}

	playerRoundsKey := fmt.Sprintf(KeyPlayerRounds, playerID)

	roundIDs, err := s.client.ZRevRange(s.ctx, playerRoundsKey, 0, limit-1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get round IDs: %v", err)
	}

	var rounds []*models.Round
	for _, roundID := range roundIDs {
		round, err := s.GetRound(roundID)
		if err != nil {
			continue
		}

		rounds = append(rounds, round)
	}

	return rounds, nil
}

func (s *RedisService) CheckRateLimit(playerID, action string, limit int, window time.Duration) (bool, error) {
	key := fmt.Sprintf(KeyRateLimit, playerID, action)

	count, err := s.client.Incr(s.ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check rate limit: %v", err)
	}

	if count == 1 {
		s.client.Expire(s.ctx, key, window)
	}

	return count <= int64(limit), nil
}

func (s *RedisService) DeleteRound(roundID string) error {
	key := fmt.Sprintf(KeyRound, roundID)
	return s.client.Del(s.ctx, key).Err()
}

func (s *RedisService) ClearRateLimit(playerID, action string) error {
	key := fmt.Sprintf(KeyRateLimit, playerID, action)
	return s.client.Del(s.ctx, key).Err()
}

func (s *RedisService) BulkGetRounds(roundIDs []string) ([]*models.Round, error) {
	if len(roundIDs) == 0 {
		return []*models.Round{}, nil
	}

	pipe := s.client.Pipeline()
	cmds := make([]*redis.StringCmd, len(roundIDs))

	for i, roundID := range roundIDs {
		key := fmt.Sprintf(KeyRound, roundID)
		cmds[i] = pipe.Get(s.ctx, key)
	}

	_, err := pipe.Exec(s.ctx)
	if err != nil && err != redis.Nil {
		return nil, fmt.Errorf("pipeline execution failed: %v", err)
	}

	var rounds []*models.Round
	for _, cmd := range cmds {
		data, err := cmd.Result()
		if err != nil {
			continue
		}

		var round models.Round
		if err := json.Unmarshal([]byte(data), &round); err != nil {
			continue
		}

		rounds = append(rounds, &round)
	}

	return rounds, nil
}
