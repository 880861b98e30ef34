package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/amhafiz/timetabler/data"
	"github.com/amhafiz/timetabler/data/db"
	"github.com/amhafiz/timetabler/timetable"
	"github.com/spf13/cobra"
)

var (
	ingestSourceFlag int64
	ingestForceFlag  bool
)

// ingestCmd represents the ingest command
var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "parse a timetable source's file into session rows",
	Long: `parses the stored master timetable file for one source, with
--force clears any previously parsed sessions first`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		dbPool, err := data.NewPool(ctx)
		if err != nil {
			fmt.Printf("Could not connect to the database %v", err)
			os.Exit(1)
		}
		q := db.New(dbPool)

		source, err := q.GetTimetableSource(ctx, ingestSourceFlag)
		if err != nil {
			fmt.Printf("No timetable source with id %d\n", ingestSourceFlag)
			os.Exit(1)
		}

		if ingestForceFlag {
			if err := q.DeleteSessionsBySource(ctx, source.ID); err != nil {
				fmt.Printf("Could not clear old sessions %v", err)
				os.Exit(1)
			}
			if err := q.ResetTimetableSourceParse(ctx, source.ID); err != nil {
				fmt.Printf("Could not reset parse state %v", err)
				os.Exit(1)
			}
			source, err = q.GetTimetableSource(ctx, source.ID)
			if err != nil {
				fmt.Printf("Could not reload source %v", err)
				os.Exit(1)
			}
		}

		ingestor := timetable.NewIngestor(dbPool)
		if !ingestor.Ingest(ctx, source) {
			fmt.Printf("Ingest failed for source %d, see the logs above\n", source.ID)
			os.Exit(1)
		}

		count, err := q.CountSessionsBySource(ctx, source.ID)
		if err == nil {
			fmt.Printf("Source %d has %d stored sessions\n", source.ID, count)
		}
	},
}

func init() {
	appCmd.AddCommand(ingestCmd)
	ingestCmd.Flags().Int64VarP(&ingestSourceFlag, "source", "s", 0, "ID of the timetable source to ingest")
	ingestCmd.Flags().BoolVarP(&ingestForceFlag, "force", "f", false, "Re-parse even if the source was already parsed")
	ingestCmd.MarkFlagRequired("source")
}
