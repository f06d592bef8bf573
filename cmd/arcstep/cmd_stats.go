package main

import (
	"fmt"
	"net/http"
)

// cmdStats shows XP, level and progression stats
func cmdStats() error {
	if !isRunning() {
		return fmt.Errorf("daemon not running (run 'arcstep start' first)")
	}

	var overview struct {
		DisplayName         string  `json:"display_name"`
		InviteCode          string  `json:"invite_code"`
		IsPro               bool    `json:"is_pro"`
		XP                  int     `json:"xp"`
		UserLevel           int     `json:"user_level"`
		LevelProgress       float64 `json:"level_progress"`
		XPForNext           int     `json:"xp_for_next"`
		MaxLevel            bool    `json:"max_level"`
		PrestigeCount       int     `json:"prestige_count"`
		PrestigeRank        string  `json:"prestige_rank"`
		PrestigeReady       bool    `json:"prestige_ready"`
		CompletedChallenges int     `json:"completed_challenges"`
		TotalChallenges     int     `json:"total_challenges"`
		CompletedNodes      int     `json:"completed_nodes"`
		CompletedLevels     int     `json:"completed_levels"`
		WeeklyCompletion    int     `json:"weekly_completion"`
	}
	if err := apiGet("/v1/overview", &overview); err != nil {
		return fmt.Errorf("get overview: %w", err)
	}

	name := overview.DisplayName
	if name == "" {
		name = "(unnamed)"
	}
	pro := ""
	if overview.IsPro {
		pro = " [Pro]"
	}

	fmt.Printf("%s%s — %s (prestige %d)\n", name, pro, overview.PrestigeRank, overview.PrestigeCount)
	fmt.Println("=========================")
	fmt.Printf("XP:          %d\n", overview.XP)
	if overview.MaxLevel {
		fmt.Printf("Level:       %d (max)\n", overview.UserLevel)
	} else {
		bar := renderProgressBar(overview.LevelProgress, 20)
		fmt.Printf("Level:       %d %s next at %d XP\n", overview.UserLevel, bar, overview.XPForNext)
	}
	fmt.Printf("Challenges:  %d/%d\n", overview.CompletedChallenges, overview.TotalChallenges)
	fmt.Printf("Nodes:       %d/12\n", overview.CompletedNodes)
	fmt.Printf("Levels:      %d/4\n", overview.CompletedLevels)
	fmt.Printf("This week:   %d%%\n", overview.WeeklyCompletion)
	fmt.Printf("Invite code: %s\n", overview.InviteCode)

	if overview.PrestigeReady {
		fmt.Println("\n★ Tree complete — run 'arcstep prestige trigger' to start a new cycle.")
	}
	return nil
}

// cmdPrestige shows, triggers or dismisses prestige
func cmdPrestige(args []string) error {
	if !isRunning() {
		return fmt.Errorf("daemon not running (run 'arcstep start' first)")
	}

	sub := "show"
	if len(args) > 0 {
		sub = args[0]
	}

	switch sub {
	case "show", "":
		var state struct {
			Ready     bool   `json:"ready"`
			Count     int    `json:"count"`
			Rank      string `json:"rank"`
			Dismissed bool   `json:"dismissed"`
		}
		if err := apiGet("/v1/prestige", &state); err != nil {
			return err
		}
		fmt.Printf("Rank:      %s (prestige %d)\n", state.Rank, state.Count)
		fmt.Printf("Ready:     %t\n", state.Ready)
		fmt.Printf("Dismissed: %t\n", state.Dismissed)
		return nil

	case "trigger":
		var snap struct {
			PrestigeCount int `json:"prestige_count"`
			XP            int `json:"xp"`
		}
		if err := apiSend(http.MethodPost, "/v1/prestige", nil, &snap); err != nil {
			return err
		}
		fmt.Printf("★ Prestige %d — tree reset, %d XP kept.\n", snap.PrestigeCount, snap.XP)
		return nil

	case "dismiss":
		if err := apiSend(http.MethodPost, "/v1/prestige/dismiss", nil, nil); err != nil {
			return err
		}
		fmt.Println("Prestige prompt dismissed for this cycle.")
		return nil

	default:
		return fmt.Errorf("unknown prestige command: %s (valid: show, trigger, dismiss)", sub)
	}
}

// cmdCircle shows the user's circle ranked by weekly completion
func cmdCircle() error {
	if !isRunning() {
		return fmt.Errorf("daemon not running (run 'arcstep start' first)")
	}

	var overview struct {
		UserID string `json:"user_id"`
	}
	if err := apiGet("/v1/overview", &overview); err != nil {
		return fmt.Errorf("get overview: %w", err)
	}

	var resp struct {
		Circle []struct {
			Name             string `json:"name"`
			WeeklyCompletion int    `json:"weekly_completion"`
		} `json:"circle"`
	}
	if err := apiGet("/v1/social/circle?user_id="+overview.UserID, &resp); err != nil {
		return fmt.Errorf("get circle: %w", err)
	}

	if len(resp.Circle) == 0 {
		fmt.Println("Your circle is empty. Share your invite code with 'arcstep invite'.")
		return nil
	}

	fmt.Println("Circle — this week")
	fmt.Println("------------------")
	for i, entry := range resp.Circle {
		bar := renderProgressBar(float64(entry.WeeklyCompletion)/100, 20)
		fmt.Printf("%d. %-16s %s %d%%\n", i+1, entry.Name, bar, entry.WeeklyCompletion)
	}
	return nil
}

// cmdInvite shows or regenerates the invite code
func cmdInvite(args []string) error {
	if !isRunning() {
		return fmt.Errorf("daemon not running (run 'arcstep start' first)")
	}

	if len(args) > 0 && args[0] == "regen" {
		var resp struct {
			InviteCode string `json:"invite_code"`
		}
		if err := apiSend(http.MethodPost, "/v1/profile/invite/regenerate", nil, &resp); err != nil {
			return err
		}
		fmt.Printf("New invite code: %s\n", resp.InviteCode)
		return nil
	}

	var overview struct {
		InviteCode string `json:"invite_code"`
	}
	if err := apiGet("/v1/overview", &overview); err != nil {
		return err
	}
	fmt.Printf("Invite code: %s\n", overview.InviteCode)
	return nil
}
