package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/subosito/gotenv"

	"codeberg.org/snonux/doctrans/internal"
)

// CreateRootCommand creates and configures the root cobra command
func CreateRootCommand(flags *Flags) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "doctrans [file]",
		Short: "Document translator for Markdown, Word and PDF files",
		Long: `doctrans translates Markdown (.md), Word (.docx) and PDF (.pdf) documents
with Google Gemini and writes the result next to the input as
<name>_translated.<ext>. The input file is never modified.

Examples:
  doctrans README.md                      # Translate into Traditional Chinese
  doctrans -l German -m pro report.docx   # Use the pro model tier
  doctrans --batch docs.txt               # Translate every file listed in docs.txt
  doctrans --dry-run slides.pdf           # Show the text segments only`,
		Args:          cobra.MaximumNArgs(1),
		Version:       internal.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Set up flags
	setupFlags(rootCmd, flags)

	return rootCmd
}

func setupFlags(cmd *cobra.Command, flags *Flags) {
	// Global flags
	cmd.PersistentFlags().StringVar(&flags.CfgFile, "config", "", "config file (default is $HOME/.doctrans.yaml)")
	cmd.PersistentFlags().BoolVarP(&flags.Verbose, "verbose", "v", false, "Enable debug logging")

	// Local flags
	cmd.Flags().StringVarP(&flags.TargetLang, "target-lang", "l", flags.TargetLang, "Target language for translation")
	cmd.Flags().StringVarP(&flags.Model, "model", "m", flags.Model, "Gemini model: 'flash', 'pro' or a model id")
	cmd.Flags().StringVarP(&flags.APIKey, "api-key", "k", "", "Google Gemini API key (default: $GOOGLE_API_KEY)")
	cmd.Flags().StringVar(&flags.BatchFile, "batch", "", "Translate the documents listed in file (one per line)")
	cmd.Flags().BoolVar(&flags.DryRun, "dry-run", false, "List the text segments without translating")
	cmd.Flags().BoolVar(&flags.ListModels, "list-models", false, "List available Gemini models for the current API key")

	// Provider flags
	cmd.Flags().StringVar(&flags.Backend, "backend", flags.Backend, "Provider API: genai or openai (OpenAI-compatible endpoint)")
	cmd.Flags().StringVar(&flags.BaseURL, "base-url", "", "Endpoint override for the openai backend")

	// PDF flags
	cmd.Flags().StringVar(&flags.PDFFont, "pdf-font", "", "TrueType font for PDF output (needed for non-Latin scripts)")

	// Bind flags to viper
	bindFlagsToViper(cmd)
}

func bindFlagsToViper(cmd *cobra.Command) {
	viper.BindPFlag("translation.target_lang", cmd.Flags().Lookup("target-lang"))
	viper.BindPFlag("translation.model", cmd.Flags().Lookup("model"))
	viper.BindPFlag("translation.api_key", cmd.Flags().Lookup("api-key"))
	viper.BindPFlag("provider.backend", cmd.Flags().Lookup("backend"))
	viper.BindPFlag("provider.base_url", cmd.Flags().Lookup("base-url"))
	viper.BindPFlag("pdf.font_file", cmd.Flags().Lookup("pdf-font"))
}

// InitConfig loads .env from the working directory and initializes viper
// configuration
func InitConfig(cfgFile string) {
	// A missing .env file is fine; existing variables win.
	_ = gotenv.Load()

	if cfgFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error getting home directory: %v\n", err)
			return
		}

		// Search config in home directory with name ".doctrans" (without extension)
		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".doctrans")
	}

	// Environment variables, e.g. DOCTRANS_TRANSLATION_TARGET_LANG
	viper.SetEnvPrefix("DOCTRANS")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// Read config file
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// ApplyConfig copies configured values into flags the user did not set on
// the command line. Precedence is flag, environment, config file, default.
func ApplyConfig(flags *Flags) {
	if v := viper.GetString("translation.target_lang"); v != "" {
		flags.TargetLang = v
	}
	if v := viper.GetString("translation.model"); v != "" {
		flags.Model = v
	}
	if v := viper.GetString("provider.backend"); v != "" {
		flags.Backend = v
	}
	if v := viper.GetString("provider.base_url"); v != "" {
		flags.BaseURL = v
	}
	if v := viper.GetString("pdf.font_file"); v != "" {
		flags.PDFFont = v
	}
}

// GetAPIKey retrieves the Google API key from the flag, the environment or
// the config file, in that order
func GetAPIKey(flags *Flags) string {
	if flags != nil && strings.TrimSpace(flags.APIKey) != "" {
		return strings.TrimSpace(flags.APIKey)
	}

	// Then check environment variable
	if key := strings.TrimSpace(os.Getenv("GOOGLE_API_KEY")); key != "" {
		return key
	}

	// Then check config file
	return strings.TrimSpace(viper.GetString("translation.api_key"))
}
