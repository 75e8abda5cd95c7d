package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	cl "finfun/internal/cli"
	"finfun/internal/config"
	"finfun/internal/learn"
	"finfun/internal/sim"
)

func main() {
	cfg := config.LoadCLIFromEnv()

	root := &cobra.Command{
		Use:          "finfun",
		Short:        "FinFun, a personal finance learning game",
		SilenceUsage: true,
	}

	root.AddCommand(
		newPlayCmd(cfg),
		newLessonsCmd(),
		newLeaderboardCmd(cfg),
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newPlayCmd(cfg config.CLIConfig) *cobra.Command {
	var (
		name     string
		salary   int
		expenses float64
		growth   int
		children []float64
	)
	cmd := &cobra.Command{
		Use:   "play",
		Short: "Play a two-minute game of FinFun",
		RunE: func(cmd *cobra.Command, args []string) error {
			profile := sim.Profile{
				Name:                   strings.TrimSpace(name),
				MonthlySalaryThousands: salary,
				MonthlyExpensesMicros:  sim.DollarsToMicros(expenses),
				CareerGrowthPct:        growth,
			}
			for _, age := range children {
				profile.Dependents = append(profile.Dependents, sim.Dependent{Age: age})
			}
			return runPlay(cfg, profile)
		},
	}
	def := sim.DefaultProfile()
	cmd.Flags().StringVar(&name, "name", def.Name, "player name")
	cmd.Flags().IntVar(&salary, "salary", def.MonthlySalaryThousands, "monthly salary in thousands of dollars")
	cmd.Flags().Float64Var(&expenses, "expenses", sim.MicrosToDollars(def.MonthlyExpensesMicros), "monthly expenses in dollars")
	cmd.Flags().IntVar(&growth, "growth", def.CareerGrowthPct, "yearly career growth percentage")
	cmd.Flags().Float64SliceVar(&children, "children", []float64{2}, "ages of dependent children")
	return cmd
}

func newLessonsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lessons [list|read <n>|quiz <n>]",
		Short: "Browse and complete the finance lessons",
		Args:  cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			course := learn.NewCourse()
			if len(args) == 0 || args[0] == "list" {
				listLessons(course)
				return nil
			}
			if len(args) < 2 {
				return fmt.Errorf("usage: finfun lessons %s <n>", args[0])
			}
			n, err := strconv.Atoi(args[1])
			if err != nil || n < 1 || n > len(course.Lessons()) {
				return fmt.Errorf("lesson number must be between 1 and %d", len(course.Lessons()))
			}
			lesson := course.Lessons()[n-1]

			switch args[0] {
			case "read":
				readLesson(lesson)
				return nil
			case "quiz":
				return runQuiz(course, lesson)
			default:
				return fmt.Errorf("unknown subcommand %q", args[0])
			}
		},
	}
	return cmd
}

func listLessons(course *learn.Course) {
	lessons := course.Lessons()
	accent.Println("FinFun Lessons")
	for i, l := range lessons {
		mark := "[ ]"
		if l.Completed {
			mark = "[x]"
		}
		fmt.Printf("  %s %d. %s\n", mark, i+1, l.Title)
	}
	printInfo(fmt.Sprintf("%d of %d complete. Next up: %s", course.CompletedCount(), len(lessons), course.Current().Title))
}

func readLesson(lesson learn.Lesson) {
	accent.Println(lesson.Title)
	fmt.Println(lesson.Description)
	for _, s := range lesson.Sections {
		fmt.Println()
		warn.Println(s.Title)
		fmt.Println(s.Explanation)
	}
	fmt.Println()
	printInfo(fmt.Sprintf("Ready? Take the quiz with: finfun lessons quiz <n> (%d questions)", len(lesson.Quiz.Questions)))
}

func runQuiz(course *learn.Course, lesson learn.Lesson) error {
	accent.Printf("Quiz: %s\n", lesson.Title)
	answers := make([]int, 0, len(lesson.Quiz.Questions))
	for i, q := range lesson.Quiz.Questions {
		fmt.Printf("\n%d. %s\n", i+1, q.Prompt)
		for j, opt := range q.Options {
			fmt.Printf("   %d) %s\n", j+1, opt)
		}
		pick, err := promptInt("Your answer", 1, len(q.Options))
		if err != nil {
			return err
		}
		answers = append(answers, pick-1)
	}

	correct, total, err := course.Complete(lesson.Title, answers)
	if err != nil {
		return err
	}
	fmt.Println()
	if correct == total {
		printSuccess(fmt.Sprintf("Perfect score, %d/%d. Lesson complete!", correct, total))
	} else {
		printWarn(fmt.Sprintf("You got %d/%d. Review the lesson and try again.", correct, total))
	}
	return nil
}

func newLeaderboardCmd(cfg config.CLIConfig) *cobra.Command {
	return &cobra.Command{
		Use:   "leaderboard",
		Short: "Show the global leaderboard",
		RunE: func(cmd *cobra.Command, args []string) error {
			if cfg.APIBaseURL == "" {
				return fmt.Errorf("set FINFUN_API_BASE_URL to use the leaderboard")
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()

			rows, err := cl.NewClient(cfg.APIBaseURL).Leaderboard(ctx)
			if err != nil {
				return err
			}
			if len(rows) == 0 {
				printInfo("No games on the board yet.")
				return nil
			}
			accent.Println("FinFun Leaderboard")
			for _, row := range rows {
				outcome := danger.Sprint("bankrupt")
				if row.EndReason == "time" {
					outcome = success.Sprint("survived")
				}
				fmt.Printf("  %2d. %-20s %12s  %s\n", row.Rank, row.PlayerName, formatDollars(row.FinalBalanceMicros), outcome)
			}
			return nil
		},
	}
}
