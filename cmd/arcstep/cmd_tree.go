package main

import (
	"bufio"
	"fmt"
	"net/http"
	"os"
	"strings"
)

// cmdOnboard collects the three domain goals and generates the first
// challenge set for every node.
func cmdOnboard() error {
	if !isRunning() {
		return fmt.Errorf("daemon not running (run 'arcstep start' first)")
	}

	reader := bufio.NewReader(os.Stdin)
	ask := func(prompt string) (string, error) {
		fmt.Print(prompt)
		line, err := reader.ReadString('\n')
		if err != nil {
			return "", fmt.Errorf("read input: %w", err)
		}
		return strings.TrimSpace(line), nil
	}

	body, err := ask("Body goal (e.g. \"run a 5k\"): ")
	if err != nil {
		return err
	}
	mind, err := ask("Mind goal (e.g. \"meditate daily\"): ")
	if err != nil {
		return err
	}
	craft, err := ask("Craft goal (e.g. \"learn woodworking\"): ")
	if err != nil {
		return err
	}

	fmt.Println("Generating your challenge tree, this can take a minute...")

	var snap struct {
		OnboardingComplete bool `json:"onboarding_complete"`
	}
	payload := map[string]string{"body": body, "mind": mind, "craft": craft}
	if err := apiSend(http.MethodPost, "/v1/onboarding", payload, &snap); err != nil {
		return err
	}

	fmt.Println("✓ Onboarding complete. Run 'arcstep tree' to see your challenges.")
	return nil
}

// treeResponse mirrors the daemon's tree view
type treeResponse struct {
	XP     int `json:"xp"`
	Levels []struct {
		Number   int    `json:"number"`
		Title    string `json:"title"`
		Subtitle string `json:"subtitle"`
		Unlocked bool   `json:"unlocked"`
		Complete bool   `json:"complete"`
		Nodes    []struct {
			ID         string `json:"id"`
			DomainID   string `json:"domain_id"`
			Title      string `json:"title"`
			Complete   bool   `json:"complete"`
			Challenges []struct {
				ID    string `json:"id"`
				Title string `json:"title"`
				XP    int    `json:"xp"`
				Done  bool   `json:"done"`
			} `json:"challenges"`
		} `json:"nodes"`
	} `json:"levels"`
}

// cmdTree renders the skill tree
func cmdTree() error {
	if !isRunning() {
		return fmt.Errorf("daemon not running (run 'arcstep start' first)")
	}

	var tree treeResponse
	if err := apiGet("/v1/tree", &tree); err != nil {
		return fmt.Errorf("get tree: %w", err)
	}

	fmt.Printf("Skill Tree (%d XP)\n", tree.XP)
	for _, level := range tree.Levels {
		state := "locked"
		if level.Complete {
			state = "complete"
		} else if level.Unlocked {
			state = "unlocked"
		}
		fmt.Printf("\nLevel %d — %s (%s)\n", level.Number, level.Title, state)

		if !level.Unlocked {
			continue
		}
		for _, node := range level.Nodes {
			mark := " "
			if node.Complete {
				mark = "✓"
			}
			fmt.Printf("  [%s] %s (%s)\n", mark, node.Title, node.ID)
			for _, ch := range node.Challenges {
				mark := " "
				if ch.Done {
					mark = "✓"
				}
				fmt.Printf("      [%s] %-12s %s (+%d XP)\n", mark, ch.ID, ch.Title, ch.XP)
			}
		}
	}
	return nil
}

// cmdToggle toggles a single challenge
func cmdToggle(args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("usage: arcstep toggle <node-id> <challenge-id>")
	}
	if !isRunning() {
		return fmt.Errorf("daemon not running (run 'arcstep start' first)")
	}

	var outcome struct {
		XPDelta              int  `json:"xp_delta"`
		NodeJustCompleted    bool `json:"node_just_completed"`
		LevelJustCompleted   bool `json:"level_just_completed"`
		CompletedLevelNumber int  `json:"completed_level_number"`
		Snapshot             struct {
			XP int `json:"xp"`
		} `json:"snapshot"`
	}
	payload := map[string]string{"node_id": args[0], "challenge_id": args[1]}
	if err := apiSend(http.MethodPost, "/v1/challenges/toggle", payload, &outcome); err != nil {
		return err
	}

	if outcome.XPDelta >= 0 {
		fmt.Printf("+%d XP (total %d)\n", outcome.XPDelta, outcome.Snapshot.XP)
	} else {
		fmt.Printf("%d XP (total %d)\n", outcome.XPDelta, outcome.Snapshot.XP)
	}
	if outcome.NodeJustCompleted {
		fmt.Println("✓ Node complete!")
	}
	if outcome.LevelJustCompleted {
		fmt.Printf("★ Level %d complete!\n", outcome.CompletedLevelNumber)
	}
	return nil
}

// cmdRegenerate replaces a node's challenges with a fresh generated set
func cmdRegenerate(args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: arcstep regen <node-id> [goal]")
	}
	if !isRunning() {
		return fmt.Errorf("daemon not running (run 'arcstep start' first)")
	}

	payload := map[string]string{}
	if len(args) > 1 {
		payload["goal"] = strings.Join(args[1:], " ")
	}

	var resp struct {
		Challenges []struct {
			ID    string `json:"id"`
			Title string `json:"title"`
			XP    int    `json:"xp"`
		} `json:"challenges"`
	}
	if err := apiSend(http.MethodPost, "/v1/nodes/"+args[0]+"/regenerate", payload, &resp); err != nil {
		return err
	}

	fmt.Printf("New challenges for %s:\n", args[0])
	for _, ch := range resp.Challenges {
		fmt.Printf("  %s (+%d XP)\n", ch.Title, ch.XP)
	}
	fmt.Println("Previous completion on this node was reset.")
	return nil
}
