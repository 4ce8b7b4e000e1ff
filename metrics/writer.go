package metrics

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

// Writer appends one line per policy update to the loss log and one line
// per evaluation to the win ratio log.
type Writer struct {
	lossFile     *os.File
	winRatioFile *os.File
	loss         *csv.Writer
	winRatio     *csv.Writer
}

func LossLogPath(dir, board, name string) string {
	return filepath.Join(dir, board+"_loss_"+name+".txt")
}

func WinRatioLogPath(dir, board, name string) string {
	return filepath.Join(dir, board+"_win_ratio_"+name+".txt")
}

// NewWriter opens both logs in dir. A fresh run truncates them, a resumed
// run appends. Headers are written to empty files only.
func NewWriter(dir, board, name string, resume bool) (*Writer, error) {
	err := os.MkdirAll(dir, 0755)
	if err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	lossFile, loss, err := openLog(LossLogPath(dir, board, name), resume, []string{"self-play", "loss", "entropy"})
	if err != nil {
		return nil, fmt.Errorf("failed to open loss log: %w", err)
	}
	winRatioFile, winRatio, err := openLog(WinRatioLogPath(dir, board, name), resume, []string{"self-play", "pure_MCTS", "win_ratio"})
	if err != nil {
		lossFile.Close()
		return nil, fmt.Errorf("failed to open win ratio log: %w", err)
	}

	return &Writer{
		lossFile:     lossFile,
		winRatioFile: winRatioFile,
		loss:         loss,
		winRatio:     winRatio,
	}, nil
}

func openLog(path string, resume bool, header []string) (*os.File, *csv.Writer, error) {
	flags := os.O_CREATE | os.O_WRONLY
	if resume {
		flags |= os.O_APPEND
	} else {
		flags |= os.O_TRUNC
	}
	f, err := os.OpenFile(path, flags, 0644)
	if err != nil {
		return nil, nil, err
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, nil, err
	}

	writer := csv.NewWriter(f)
	if info.Size() == 0 {
		if err := writeRow(writer, header); err != nil {
			f.Close()
			return nil, nil, fmt.Errorf("failed to write header: %w", err)
		}
	}
	return f, writer, nil
}

// writeRow writes and flushes so that an interrupted run keeps every
// completed line.
func writeRow(writer *csv.Writer, row []string) error {
	if err := writer.Write(row); err != nil {
		return err
	}
	writer.Flush()
	return writer.Error()
}

// AppendLoss writes "iteration,loss,entropy".
func (w *Writer) AppendLoss(iteration int, loss, entropy float64) error {
	row := []string{
		strconv.Itoa(iteration),
		strconv.FormatFloat(loss, 'g', -1, 64),
		strconv.FormatFloat(entropy, 'g', -1, 64),
	}
	if err := writeRow(w.loss, row); err != nil {
		return fmt.Errorf("failed to write loss row: %w", err)
	}
	return nil
}

// AppendWinRatio writes "iteration,baseline_playouts,win_ratio".
func (w *Writer) AppendWinRatio(iteration, baselinePlayouts int, winRatio float64) error {
	row := []string{
		strconv.Itoa(iteration),
		strconv.Itoa(baselinePlayouts),
		strconv.FormatFloat(winRatio, 'g', -1, 64),
	}
	if err := writeRow(w.winRatio, row); err != nil {
		return fmt.Errorf("failed to write win ratio row: %w", err)
	}
	return nil
}

func (w *Writer) Close() error {
	w.loss.Flush()
	w.winRatio.Flush()
	return errors.Join(w.loss.Error(), w.winRatio.Error(), w.lossFile.Close(), w.winRatioFile.Close())
}
