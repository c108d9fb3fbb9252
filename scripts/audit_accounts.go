// Command audit-accounts scans a Redis store for account records that break
// the ledger rules: unreadable JSON, negative balances and identity index
// entries that point at the wrong account.
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/KirkDiggler/funko-battle/internal/entities"
	"github.com/KirkDiggler/funko-battle/internal/redis"
)

const (
	accountPattern = "account:*"
	identityPrefix = "account:identity:"
)

// finding is one broken key and why it was flagged
type finding struct {
	Key    string
	Reason string
}

func main() {
	addr := os.Getenv("FUNKO_REDIS_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}

	client, err := redis.NewClient(addr, nil)
	if err != nil {
		log.Fatal("Failed to create Redis client:", err)
	}
	defer func() {
		_ = client.Close()
	}()

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		log.Fatal("Failed to connect to Redis:", err)
	}

	fmt.Println("Connected to Redis:", addr)

	findings, checked, err := audit(ctx, client)
	if err != nil {
		log.Fatal("Error during scan:", err)
	}

	fmt.Printf("\nChecked %d keys, found %d problems\n", checked, len(findings))
	if len(findings) == 0 {
		return
	}

	for _, f := range findings {
		fmt.Printf("  - %s: %s\n", f.Key, f.Reason)
	}

	// Only dangling identity entries are safe to drop; account records are
	// left for a human to repair.
	if confirm(os.Stdin, "\nDelete dangling identity entries? (yes/no): ") {
		removed, err := removeDangling(ctx, client, findings)
		if err != nil {
			log.Fatal("Cleanup failed:", err)
		}
		fmt.Printf("Deleted %d identity entries\n", removed)
	} else {
		fmt.Println("Aborted - no changes made")
	}
}

// audit walks every account key and reports the broken ones
func audit(ctx context.Context, client redis.Client) ([]finding, int, error) {
	var findings []finding
	checked := 0

	iter := client.Scan(ctx, 0, accountPattern, 0).Iterator()
	for iter.Next(ctx) {
		key := iter.Val()
		checked++

		if strings.HasPrefix(key, identityPrefix) {
			if f := checkIdentity(ctx, client, key); f != nil {
				findings = append(findings, *f)
			}
			continue
		}

		data, err := client.Get(ctx, key).Result()
		if err != nil {
			return nil, checked, fmt.Errorf("failed to read %s: %w", key, err)
		}

		var acct entities.Account
		if err := json.Unmarshal([]byte(data), &acct); err != nil {
			findings = append(findings, finding{Key: key, Reason: "corrupted JSON"})
			continue
		}
		if acct.Balance < 0 {
			findings = append(findings, finding{
				Key:    key,
				Reason: fmt.Sprintf("negative balance %d", acct.Balance),
			})
		}
	}

	if err := iter.Err(); err != nil {
		return nil, checked, err
	}
	return findings, checked, nil
}

func checkIdentity(ctx context.Context, client redis.Client, key string) *finding {
	identity := strings.TrimPrefix(key, identityPrefix)

	id, err := client.Get(ctx, key).Result()
	if err != nil {
		return &finding{Key: key, Reason: "unreadable identity entry"}
	}

	data, err := client.Get(ctx, "account:"+id).Result()
	if err == redis.Nil {
		return &finding{Key: key, Reason: fmt.Sprintf("dangling: account %s does not exist", id)}
	}
	if err != nil {
		return &finding{Key: key, Reason: "unreadable account " + id}
	}

	var acct entities.Account
	if err := json.Unmarshal([]byte(data), &acct); err != nil {
		// the account key itself is reported by the main scan
		return nil
	}
	if acct.ExternalIdentity != identity {
		return &finding{
			Key:    key,
			Reason: fmt.Sprintf("account %s belongs to %q", id, acct.ExternalIdentity),
		}
	}
	return nil
}

func removeDangling(ctx context.Context, client redis.Client, findings []finding) (int, error) {
	removed := 0
	for _, f := range findings {
		if !strings.HasPrefix(f.Key, identityPrefix) || !strings.HasPrefix(f.Reason, "dangling") {
			continue
		}
		if err := client.Del(ctx, f.Key).Err(); err != nil {
			return removed, fmt.Errorf("failed to delete %s: %w", f.Key, err)
		}
		removed++
	}
	return removed, nil
}

func confirm(in io.Reader, prompt string) bool {
	fmt.Print(prompt)
	answer, _ := bufio.NewReader(in).ReadString('\n')
	return strings.TrimSpace(answer) == "yes"
}
