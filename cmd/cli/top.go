package cli

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"texttide/cmd"
	"texttide/internal/config"
	"texttide/internal/logger"
	"texttide/internal/retention"
	"texttide/internal/services"
)

var limitFlag int

// TopCmd représente la commande 'top'
var TopCmd = &cobra.Command{
	Use:   "top",
	Short: "List the most liked snippets",
	Long:  `List the live snippets ordered by like count, most liked first.`,
	Run:   runTop,
}

func init() {
	TopCmd.Flags().IntVar(&limitFlag, "limit", 10, "Maximum number of snippets to show")
	cmd.RootCmd.AddCommand(TopCmd)
}

// runTop exécute la logique pour la commande top
func runTop(cobraCmd *cobra.Command, args []string) {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Échec du chargement de la configuration : %v", err)
	}

	repo, err := openRepository(cfg)
	if err != nil {
		log.Fatalf("Failed to open snippet store: %v", err)
	}
	snippetService := services.NewSnippetService(repo, retention.DefaultWindow, logger.New())

	snippets, err := snippetService.TopLiked(limitFlag)
	if err != nil {
		log.Fatalf("Error retrieving top snippets: %v", err)
	}

	if len(snippets) == 0 {
		fmt.Println("No live snippets.")
		return
	}

	fmt.Printf("Top %d snippets:\n", len(snippets))
	for i, s := range snippets {
		fmt.Printf("%2d. %s  likes=%-4d created=%s  %s\n",
			i+1, s.ID, s.LikesCount, s.CreatedAt.Format("2006-01-02 15:04:05"), preview(s.Text))
	}
}

// preview truncates the snippet text to one short display line.
func preview(text string) string {
	const max = 40
	for i, r := range text {
		if r == '\n' {
			return text[:i] + "…"
		}
		if i >= max {
			return text[:i] + "…"
		}
	}
	return text
}
