// Command scrawl plays captcha challenges in the terminal. Each challenge is
// written to a PNG file which can be opened in any image viewer.
package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"
	"github.com/google/uuid"

	"scrawl/internal/config"
	"scrawl/internal/render"
	"scrawl/internal/scheduler"
	"scrawl/internal/session"
	"scrawl/internal/stats"
	"scrawl/internal/store"
)

const (
	actionAnswer = "Answer"
	actionNew    = "New challenge"
	actionReset  = "Reset statistics"
	actionQuit   = "Quit"
)

func main() {
	out := flag.String("out", "captcha.png", "where to write the challenge image")
	cfgPath := flag.String("config", config.Path("config.yaml"), "config file")
	resume := flag.String("session", "", "session id to resume; stats reload when stats.store is redis")
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("Failed to load config: %v, using default config", err)
	}

	statsStore := stats.Store(store.NewMemory(cfg.Stats.TTL))
	if cfg.Stats.Store == "redis" {
		statsStore = store.New(cfg.Stats.RedisAddr, cfg.Stats.TTL)
	}

	id := *resume
	if _, err := uuid.Parse(id); err != nil {
		id = uuid.NewString()
	}
	fmt.Printf("Session %s\n", id)
	display := stats.DisplayFunc(printStats)
	clock := &scheduler.Manual{}
	sess := session.New(id,
		render.NewCanvas(cfg.Canvas.Width, cfg.Canvas.Height),
		stats.New(id, display, statsStore),
		session.Options{
			Length:       cfg.Challenge.Length,
			SuccessDelay: cfg.Challenge.SuccessDelay,
			FailureDelay: cfg.Challenge.FailureDelay,
			Scheduler:    clock,
		})
	defer sess.Close()

	for {
		if err := writeImage(sess, *out); err != nil {
			log.Fatalf("write %s: %v", *out, err)
		}
		fmt.Printf("Challenge written to %s\n", *out)

		var action string
		err := survey.AskOne(&survey.Select{
			Message: "What next?",
			Options: []string{actionAnswer, actionNew, actionReset, actionQuit},
		}, &action)
		if errors.Is(err, terminal.InterruptErr) {
			return
		}
		if err != nil {
			log.Fatalf("prompt: %v", err)
		}

		switch action {
		case actionAnswer:
			if !answer(sess, clock) {
				return
			}
		case actionNew:
			sess.NewChallenge()
		case actionReset:
			sess.ResetStats()
		case actionQuit:
			return
		}
	}
}

// answer runs one verification round. It reports false when the user
// interrupted the prompt.
func answer(sess *session.Session, clock *scheduler.Manual) bool {
	qs := []*survey.Question{{
		Name:      "answer",
		Prompt:    &survey.Input{Message: "Enter the characters in the image:"},
		Validate:  survey.Required,
		Transform: survey.TransformString(strings.ToUpper),
	}}
	var in struct {
		Answer string `survey:"answer"`
	}
	if err := survey.Ask(qs, &in); err != nil {
		if errors.Is(err, terminal.InterruptErr) {
			return false
		}
		log.Fatalf("prompt: %v", err)
	}

	res, err := sess.Verify(in.Answer)
	fmt.Println(res.Message)
	if err != nil {
		return true
	}

	fmt.Printf("Next challenge in %s...\n", res.Next)
	time.Sleep(res.Next)
	clock.Advance(res.Next)
	return true
}

func writeImage(sess *session.Session, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := sess.WriteImage(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func printStats(v stats.View) {
	s := v.Slots()
	fmt.Printf("Attempts: %s  Successful: %s  Rate: %s  Difficulty: %s\n",
		s[stats.SlotTotal], s[stats.SlotSuccessful], s[stats.SlotRate], s[stats.SlotDifficulty])
}
