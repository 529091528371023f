package cli

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"texttide/cmd"
	"texttide/internal/config"
	"texttide/internal/logger"
	"texttide/internal/retention"
	"texttide/internal/services"
)

var (
	textFlag     string
	editableFlag bool
)

// cliVisitorID is the creator token recorded for snippets created from the
// command line, where no connection metadata exists to derive one from.
const cliVisitorID = "cli"

// CreateCmd représente la commande 'create'
var CreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Partage un texte et affiche le lien généré.",
	Long: `Cette commande enregistre le texte fourni dans le store et affiche
l'identifiant court généré.

Exemple:
  texttide create --text="hello world" --editable`,
	Run: func(cobraCmd *cobra.Command, args []string) {
		if textFlag == "" {
			fmt.Println("Error: --text flag is required")
			os.Exit(1)
		}

		cfg, err := config.LoadConfig()
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}

		repo, err := openRepository(cfg)
		if err != nil {
			log.Fatalf("Failed to open snippet store: %v", err)
		}
		snippetService := services.NewSnippetService(repo, retention.DefaultWindow, logger.New())

		view, err := snippetService.Create(textFlag, editableFlag, cliVisitorID)
		if err != nil {
			log.Fatalf("Failed to create snippet: %v", err)
		}

		fmt.Printf("Snippet créé avec succès:\n")
		fmt.Printf("Id: %s\n", view.ID)
		fmt.Printf("Lien: %s/collection/%s\n", cfg.Server.BaseURL, view.ID)
	},
}

func init() {
	CreateCmd.Flags().StringVar(&textFlag, "text", "", "The text to share")
	CreateCmd.Flags().BoolVar(&editableFlag, "editable", false, "Allow anyone to edit the snippet")
	CreateCmd.MarkFlagRequired("text")

	cmd.RootCmd.AddCommand(CreateCmd)
}
