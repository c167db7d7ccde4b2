// Package export writes monthly records as CSV, optionally zstd-compressed.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/klauspost/compress/zstd"

	"PolnSim/internal/model"
)

// Columns is the CSV header row.
var Columns = []string{
	"Month",
	"Circulating Supply",
	"Total Supply",
	"Token Price",
	"Tokens Staked",
	"Tokens Burnt",
	"Tokens Fee Distributed",
	"Tokens Fee to DAO",
	"DAO Treasury",
	"Total Burnt Tokens",
	"Market Sentiment Index",
	"Market Regime",
	"Net Token Demand",
	"Number of Missions",
	"Number of New Missions",
	"Number of Ongoing Missions",
	"Successful Missions",
	"Failed Missions",
	"Initiator Rewards Pool",
	"Reward per Mission",
	"Halving Index",
	"Rewards Paid",
	"Tokens Sold",
	"DAO Consumed",
}

func row(r model.MonthlyRecord) []string {
	f := func(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }
	i := strconv.Itoa
	return []string{
		i(r.Month),
		f(r.CirculatingSupply),
		f(r.TotalSupply),
		f(r.TokenPrice),
		f(r.TokensStaked),
		f(r.TokensBurnt),
		f(r.TokensFeeDistributed),
		f(r.TokensFeeToDAO),
		f(r.DAOTreasury),
		f(r.TotalBurntTokens),
		f(r.SentimentValue),
		r.Regime,
		f(r.NetTokenDemand),
		i(r.MissionCount),
		i(r.NewMissions),
		i(r.OngoingMissions),
		i(r.NumSuccessful),
		i(r.NumFailed),
		f(r.InitiatorRewardsPool),
		f(r.RewardPerMission),
		i(r.HalvingIndex),
		f(r.RewardsPaid),
		f(r.InitiatorSold + r.FellowshipSold + r.BuildersSold),
		f(r.DAOConsumed),
	}
}

// WriteCSV writes the header and one row per record.
func WriteCSV(w io.Writer, records []model.MonthlyRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Columns); err != nil {
		return err
	}
	for _, r := range records {
		if err := cw.Write(row(r)); err != nil {
			return fmt.Errorf("month %d: %w", r.Month, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteJSON writes the records as an indented JSON array.
func WriteJSON(w io.Writer, records []model.MonthlyRecord) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(records)
}

// FileName is the output name for a horizon of years.
func FileName(years int, compress bool) string {
	name := fmt.Sprintf("poln_%dy.csv", years)
	if compress {
		name += ".zst"
	}
	return name
}

// WriteFile writes records under dir and returns the file path.
func WriteFile(dir string, years int, records []model.MonthlyRecord, compress bool) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	path := filepath.Join(dir, FileName(years, compress))
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return "", err
	}

	if !compress {
		if err := WriteCSV(f, records); err != nil {
			f.Close()
			return "", err
		}
		return path, f.Close()
	}

	enc, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		f.Close()
		return "", err
	}
	if err := WriteCSV(enc, records); err != nil {
		enc.Close()
		f.Close()
		return "", err
	}
	if err := enc.Close(); err != nil {
		f.Close()
		return "", fmt.Errorf("zstd close: %w", err)
	}
	return path, f.Close()
}

// ReadFile loads a file written by WriteFile as raw CSV rows, header first.
func ReadFile(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var r io.Reader = f
	if filepath.Ext(path) == ".zst" {
		dec, err := zstd.NewReader(f)
		if err != nil {
			return nil, err
		}
		defer dec.Close()
		r = dec
	}
	return csv.NewReader(r).ReadAll()
}
