package services

import (
	"fmt"
	"io"
	"net/http"
	"time"

	tcmp3 "github.com/tcolgate/mp3"
)

// GetMP3DurationFromURL tải audio voice feedback vừa upload lên storage và
// cộng dồn thời lượng từng frame MP3, trả về số giây để lưu kèm review.
func GetMP3DurationFromURL(url string) (float64, error) {
	client := &http.Client{Timeout: 2 * time.Minute}
	resp, err := client.Get(url)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("fetch audio: status %d", resp.StatusCode)
	}

	var (
		seconds float64
		dec     = tcmp3.NewDecoder(resp.Body)
		frame   tcmp3.Frame
		skipped int
	)
	for {
		if err := dec.Decode(&frame, &skipped); err != nil {
			if err == io.EOF {
				break
			}
			return 0, err
		}
		seconds += frame.Duration().Seconds()
	}
	return seconds, nil
}
