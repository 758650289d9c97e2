// Command docpro-cli is a terminal client for the DocPro intake service.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"sync"

	"github.com/Drmohdfaizan/Medical-Ai-App/internal/domain"
)

const help = `Type your symptoms and press Enter to start an analysis.
Commands:
  /meds <text>        medications for the next analysis
  /image <path>       attach an image to the next analysis
  /doc <path>         attach a lab report (PDF or text) to the next analysis
  1..4                answer the current follow-up question
  /skip               skip remaining questions
  /save               save the diagnosis to the vault
  /new                start a new analysis
  /vault [category]   list saved reports (General, Radiology, Pathology)
  /delete <id>        delete a saved report
  /lang <en|hi|hinglish>
  /mode <patient|doctor>
  /quit`

// view keeps the last snapshot so numeric answers can be mapped to options.
type view struct {
	mu   sync.Mutex
	last domain.Session
}

func (v *view) update(event domain.SessionEvent) {
	v.mu.Lock()
	prev := v.last
	v.last = event.Session
	v.mu.Unlock()
	render(prev, event.Session)
}

func (v *view) question() *domain.FollowUpQuestion {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.last.CurrentQuestion
}

func render(prev, s domain.Session) {
	if s.Notice != "" && s.Notice != prev.Notice {
		fmt.Printf("\n! %s\n", s.Notice)
	}
	if s.Pending {
		if !prev.Pending {
			fmt.Println("\n... thinking")
		}
		return
	}
	switch s.State {
	case domain.StateFollowUp:
		if q := s.CurrentQuestion; q != nil {
			fmt.Printf("\nQuestion %d/%d: %s\n", s.FollowUpCount+1, domain.MaxFollowUps, q.Question)
			for i, opt := range q.Options {
				fmt.Printf("  %d) %s\n", i+1, opt)
			}
		}
	case domain.StateDiagnosis:
		if s.Analysis.Result != "" && prev.Analysis.Result != s.Analysis.Result {
			fmt.Printf("\n===== ANALYSIS =====\n%s\n====================\n/save to keep it, /new to start over\n", s.Analysis.Result)
		}
	case domain.StateInitial:
		if prev.State != domain.StateInitial && prev.State != "" {
			fmt.Println("\nReady for a new analysis.")
		}
	}
	fmt.Print("> ")
}

func main() {
	addr := flag.String("addr", "http://localhost:8080", "intake service base URL")
	username := flag.String("user", "", "username")
	password := flag.String("password", "", "password")
	email := flag.String("email", "", "email; when set, an account is created first")
	flag.Parse()

	log.SetFlags(log.Ltime)

	if *username == "" || *password == "" {
		log.Fatal("-user and -password are required")
	}

	client := NewClient(*addr)
	if *email != "" {
		if err := client.Signup(*username, *email, *password); err != nil {
			log.Fatalf("Signup failed: %v", err)
		}
		fmt.Println("Account created.")
	}

	login, err := client.Login(*username, *password)
	if err != nil {
		log.Fatalf("Login failed: %v", err)
	}
	fmt.Printf("Logged in as %s\n", login.Account.Username)

	v := &view{}
	if err := client.Subscribe(v.update); err != nil {
		log.Fatalf("Failed to subscribe: %v", err)
	}
	defer func() {
		client.Close()
		client.Logout()
	}()

	fmt.Println(help)

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt)
	go func() {
		<-interrupt
		fmt.Println("\nInterrupted")
		client.Close()
		client.Logout()
		os.Exit(0)
	}()

	var medications, imagePath, documentPath string
	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}
		cmd, arg, _ := strings.Cut(input, " ")
		arg = strings.TrimSpace(arg)

		switch cmd {
		case "/quit":
			fmt.Println("Bye!")
			return
		case "/help":
			fmt.Println(help)
		case "/meds":
			medications = arg
		case "/image":
			imagePath = arg
		case "/doc":
			documentPath = arg
		case "/skip":
			err = client.Skip()
		case "/new":
			err = client.Reset()
		case "/save":
			var report *domain.Report
			if report, err = client.SaveReport(); err == nil {
				fmt.Printf("Saved %s under %s\n", report.ReportID, report.Category)
			}
		case "/vault":
			var reports []domain.Report
			if reports, err = client.Reports(arg); err == nil {
				printReports(reports)
			}
		case "/delete":
			var deleted bool
			if deleted, err = client.DeleteReport(arg); err == nil {
				fmt.Printf("deleted: %v\n", deleted)
			}
		case "/lang":
			_, err = client.SetPreferences(domain.Language(arg), "")
		case "/mode":
			_, err = client.SetPreferences("", domain.Mode(arg))
		default:
			if n, convErr := strconv.Atoi(input); convErr == nil {
				err = answer(client, v, n)
				break
			}
			var resp *domain.SubmitResponse
			resp, err = client.Submit(input, medications, imagePath, documentPath)
			if err == nil {
				if resp.DocumentPreview != "" {
					fmt.Printf("Lab report preview:\n%s\n", resp.DocumentPreview)
				}
				medications, imagePath, documentPath = "", "", ""
			}
		}

		if err != nil {
			fmt.Printf("error: %v\n", err)
			err = nil
		}
	}
}

func answer(client *Client, v *view, n int) error {
	q := v.question()
	if q == nil {
		return fmt.Errorf("no question to answer")
	}
	if n < 1 || n > len(q.Options) {
		return fmt.Errorf("choose 1..%d", len(q.Options))
	}
	return client.Answer(q.Options[n-1])
}

func printReports(reports []domain.Report) {
	if len(reports) == 0 {
		fmt.Println("No saved reports.")
		return
	}
	for _, r := range reports {
		fmt.Printf("%s  %s  %-9s  %s\n", r.ReportID, r.CreatedAt.Local().Format("2006-01-02 15:04"), r.Category, r.Symptoms)
	}
}
