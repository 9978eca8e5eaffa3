package redis

import "fmt"

// Key prefix for all score data
const keyPrefix = "cybersnake"

// scoreKey returns the Redis key for one name's ScoreRecord
func scoreKey(name string) string {
	return fmt.Sprintf("%s:score:%s", keyPrefix, name)
}

// leaderboardKey returns the Redis key for the ZSET of name -> best score
func leaderboardKey() string {
	return fmt.Sprintf("%s:leaderboard", keyPrefix)
}
