package cmd

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/pable/go-soccer-metrics/internal/memo"
	"github.com/pable/go-soccer-metrics/internal/statsbomb"
)

var (
	fetchCompress  bool
	fetchOverwrite bool
)

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Download the 360 files of the selected matches",
	Long: `Downloads the 360 freeze-frame file of every match in the selected competition
season played before the cutoff into the open-data path. The run command reads
these files from disk; matches without one fail to load.

Examples:
  socmetrics fetch
  socmetrics fetch --competition "FIFA World Cup" --season 2022 --compress`,
	Args: cobra.NoArgs,
	RunE: runFetch,
}

func init() {
	fetchCmd.Flags().BoolVar(&fetchCompress, "compress", false, "store files zstd-compressed (.json.zst)")
	fetchCmd.Flags().BoolVar(&fetchOverwrite, "overwrite", false, "download files that already exist")
}

func runFetch(cmd *cobra.Command, args []string) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	ctx := cmd.Context()
	ids, err := newLoader(memo.New()).MatchIDs(ctx, cfg.CompetitionName, cfg.SeasonName, cfg.DateOfAnalysis)
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "%s %s before %s: %d matches\n",
		cfg.CompetitionName, cfg.SeasonName, cfg.DateOfAnalysis, len(ids))

	client := statsbomb.NewClient(cfg.BaseURL, cfg.HTTPTimeout)
	var fetched, skipped, failed int
	for _, id := range ids {
		log := logger.WithField("match_id", id)
		if !fetchOverwrite && statsbomb.FramesExist(cfg.OpenDataPath, id) {
			log.Debug("360 file present, skipping")
			skipped++
			continue
		}
		path, err := fetchFrames(cmd, client, id)
		if err != nil {
			log.WithError(err).Warn("fetch 360 file")
			failed++
			continue
		}
		log.WithFields(logrus.Fields{"path": path}).Info("fetched 360 file")
		fetched++
	}

	fmt.Fprintf(os.Stdout, "Fetched %d, skipped %d, failed %d\n", fetched, skipped, failed)
	if failed > 0 {
		return fmt.Errorf("%d of %d 360 files could not be fetched", failed, len(ids))
	}
	return nil
}

func fetchFrames(cmd *cobra.Command, client *statsbomb.Client, matchID int) (string, error) {
	body, err := client.ThreeSixty(cmd.Context(), matchID)
	if err != nil {
		return "", err
	}
	defer body.Close()
	return statsbomb.SaveFrames(cfg.OpenDataPath, matchID, body, fetchCompress)
}
