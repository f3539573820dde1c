package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/thesrcielos/LernCasino/internal/client"
	"github.com/thesrcielos/LernCasino/internal/logger"
	"go.uber.org/zap"
)

const advanceDelay = 700 * time.Millisecond

var (
	title   = color.New(color.FgMagenta, color.Bold).SprintFunc()
	good    = color.New(color.FgGreen).SprintFunc()
	bad     = color.New(color.FgRed).SprintFunc()
	dim     = color.New(color.Faint).SprintFunc()
	golden  = color.New(color.FgYellow, color.Bold).SprintFunc()
	myColor = color.New(color.FgCyan, color.Bold).SprintFunc()
)

type app struct {
	game   *client.Game
	api    *client.APIClient
	syncer *client.Syncer
	online bool
	in     *bufio.Scanner
	ctx    context.Context
}

func main() {
	v, err := loadConfig()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	zl := zap.NewNop()
	if v.GetBool("verbose") {
		if zl, err = logger.New(false); err != nil {
			log.Fatalf("logger: %v", err)
		}
	}
	defer zl.Sync()

	api := client.NewAPIClient(v.GetString("api-base"))
	online := !v.GetBool("offline")
	var bank client.Bank = client.DefaultBank
	if online {
		bank = client.NewRemoteBank(api, client.DefaultBank)
	}

	game, err := client.NewGame(client.NewFileStore(v.GetString("state-dir")), bank)
	if err != nil {
		fmt.Println(bad("Gespeicherter Stand unlesbar, starte neu: " + err.Error()))
	}
	game.OnLevelUp(func(level int) {
		fmt.Println(golden(fmt.Sprintf("★ Level Up! Du bist jetzt Level %d ★", level)))
	})

	a := &app{
		game:   game,
		api:    api,
		syncer: client.NewSyncer(api, zl),
		online: online,
		in:     bufio.NewScanner(os.Stdin),
		ctx:    context.Background(),
	}
	if !a.authenticate() {
		return
	}
	a.loop()
}

func loadConfig() (*viper.Viper, error) {
	stateDir := "."
	if dir, err := os.UserConfigDir(); err == nil {
		stateDir = filepath.Join(dir, "lerncasino")
	}

	flags := pflag.NewFlagSet("lerncasino", pflag.ExitOnError)
	flags.String("api-base", "http://localhost:4000", "base URL of the LernCasino server")
	flags.String("state-dir", stateDir, "directory for the local profile")
	flags.Bool("offline", false, "play with the built-in questions and no account")
	flags.Bool("verbose", false, "log sync errors to stderr")
	if err := flags.Parse(os.Args[1:]); err != nil {
		return nil, err
	}

	v := viper.New()
	v.SetEnvPrefix("LERNCASINO")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if err := v.BindPFlags(flags); err != nil {
		return nil, err
	}
	return v, nil
}

func (a *app) prompt(label string) (string, bool) {
	fmt.Print(label)
	if !a.in.Scan() {
		return "", false
	}
	return strings.TrimSpace(a.in.Text()), true
}

func (a *app) authenticate() bool {
	fmt.Println(title("LernCasino"))
	for {
		fmt.Println("[1] Schnellstart  [2] Login  [3] Registrieren  [q] Beenden")
		choice, ok := a.prompt("> ")
		if !ok || choice == "q" {
			return false
		}
		switch choice {
		case "1":
			return true
		case "2", "3":
			name, _ := a.prompt("Name: ")
			pass, _ := a.prompt("Passwort: ")
			if !a.online {
				if err := a.game.LoginLocal(name); err != nil {
					fmt.Println(bad(err.Error()))
				}
				return true
			}
			var err error
			if choice == "2" {
				err = a.syncer.Login(a.ctx, a.game, name, pass)
			} else {
				err = a.syncer.Register(a.ctx, a.game, name, pass)
			}
			if err != nil {
				fmt.Println(bad(errorText(err)))
				continue
			}
			return true
		}
	}
}

func (a *app) loop() {
	for {
		a.header()
		fmt.Println("[1] Level spielen  [2] Flashcards  [3] Leaderboard  [4] Shop  [5] Profil  [q] Beenden")
		choice, ok := a.prompt("> ")
		if !ok || choice == "q" {
			return
		}
		switch choice {
		case "1":
			a.game.SwitchView(client.ViewHome)
			a.quiz()
		case "2":
			a.game.SwitchView(client.ViewFlashcards)
			a.flashcards()
		case "3":
			a.game.SwitchView(client.ViewLeaderboard)
			a.leaderboard()
		case "4":
			a.game.SwitchView(client.ViewShop)
			a.shop()
		case "5":
			a.profile()
		}
		a.game.SwitchView(client.ViewHome)
	}
}

func (a *app) header() {
	p := a.game.Profile()
	filled := int(a.game.XPProgress() * 20)
	bar := strings.Repeat("█", filled) + strings.Repeat("░", 20-filled)
	fmt.Printf("\n%s  Level %d  XP %d [%s]  ♥ %d  🪙 %d  🔥 %d\n",
		title(p.Name), p.Level, p.XP, bar, p.Hearts, p.Coins, p.Streak)
}

func (a *app) quiz() {
	raw, _ := a.prompt("Level: ")
	level, err := strconv.Atoi(raw)
	if err != nil {
		fmt.Println(bad("Ungültiges Level"))
		return
	}
	if err := a.game.StartLevel(a.ctx, level); err != nil {
		if errors.Is(err, client.ErrNoQuestions) {
			fmt.Println(client.NoQuestionsMessage)
			return
		}
		fmt.Println(bad(errorText(err)))
		return
	}

	total := len(a.game.State().CurrentQuestions)
	fmt.Println(dim(fmt.Sprintf("Level %d – %d Fragen", level, total)))
	for {
		q, ok := a.game.CurrentQuestion()
		if !ok {
			break
		}
		fmt.Printf("\nFrage %d / %d\n%s\n", a.game.State().CurrentQuestionIndex+1, total, q.Q)
		for i, ans := range q.Answers {
			fmt.Printf("  [%d] %s\n", i+1, ans)
		}

		res, err := a.answer()
		if err != nil {
			return
		}
		if res.Correct {
			fmt.Println(good(fmt.Sprintf("Richtig! +%d XP", res.XPGained)))
		} else {
			fmt.Println(bad("Falsch. Richtig wäre: " + q.Answers[res.CorrectIndex]))
		}

		time.Sleep(advanceDelay)
		done, err := a.game.Advance()
		if err != nil {
			fmt.Println(bad(err.Error()))
		}
		if done {
			fmt.Println(golden(client.LevelDoneMessage))
			return
		}
	}
}

func (a *app) answer() (client.AnswerResult, error) {
	for {
		raw, ok := a.prompt("Antwort: ")
		if !ok {
			return client.AnswerResult{}, errors.New("input closed")
		}
		i, err := strconv.Atoi(raw)
		if err != nil {
			continue
		}
		res, err := a.game.Answer(i - 1)
		if errors.Is(err, client.ErrInvalidAnswer) {
			continue
		}
		if err != nil {
			fmt.Println(bad(err.Error()))
		}
		return res, nil
	}
}

func (a *app) flashcards() {
	for {
		card, ok, err := a.game.Card(a.ctx)
		if err != nil {
			fmt.Println(bad(errorText(err)))
			return
		}
		if !ok {
			fmt.Println(client.NoCardsMessage)
			return
		}
		if a.game.CardFlipped() {
			fmt.Println("\n" + good(card.CorrectAnswer()))
		} else {
			fmt.Println("\n" + card.Q)
		}
		choice, ok := a.prompt("[f] Umdrehen  [k] Weiß ich  [x] Zurück > ")
		if !ok || choice == "x" {
			return
		}
		switch choice {
		case "f":
			a.game.Flip()
		case "k":
			if _, err := a.game.IKnow(); err != nil {
				fmt.Println(bad(err.Error()))
			}
		}
	}
}

func (a *app) leaderboard() {
	if a.online && a.api.Token() != "" {
		entries, err := a.api.Leaderboard(a.ctx)
		if err == nil {
			me := a.game.Profile().Name
			for i, e := range entries {
				line := fmt.Sprintf("%2d  %s  %d XP · Streak %d", i+1, e.Username, e.XP, e.Streak)
				if e.Username == me {
					line = myColor(line)
				}
				fmt.Println(line)
			}
			return
		}
		fmt.Println(dim("Server nicht erreichbar, zeige lokale Rangliste"))
	}

	for i, e := range a.game.Leaderboard() {
		name := e.Name
		if e.IsMe {
			name = myColor("Du (" + e.Name + ")")
		}
		fmt.Printf("%2d  %s  %d XP · Streak %d\n", i+1, name, e.XP, e.Streak)
	}
}

func (a *app) shop() {
	on := a.game.State().DoubleXP
	fmt.Printf("Doppelte XP: %v\n", on)
	if choice, _ := a.prompt("[t] Umschalten  [x] Zurück > "); choice == "t" {
		a.game.SetDoubleXP(!on)
	}
}

func (a *app) profile() {
	p := a.game.Profile()
	fmt.Printf("Name: %s  Level: %d  XP: %d  Bester Streak: %d\n", p.Name, p.Level, p.XP, p.BestStreak)
	name, ok := a.prompt("Neuer Name (leer = behalten): ")
	if !ok {
		return
	}
	if a.online && a.api.Token() != "" {
		pass, _ := a.prompt("Neues Passwort (leer = behalten): ")
		if name != "" || pass != "" {
			if _, err := a.api.UpdateMe(a.ctx, name, pass); err != nil {
				fmt.Println(bad(errorText(err)))
				return
			}
		}
	}
	if err := a.game.SaveProfile(name); err != nil {
		fmt.Println(bad(err.Error()))
	}
}

func errorText(err error) string {
	var apiErr *client.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message()
	}
	return err.Error()
}
