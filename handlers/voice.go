package handlers

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"washbot/config"
	"washbot/utils"

	speech "cloud.google.com/go/speech/apiv1"
	texttospeech "cloud.google.com/go/texttospeech/apiv1"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"google.golang.org/api/option"
	speechpb "google.golang.org/genproto/googleapis/cloud/speech/v1"
	ttspb "google.golang.org/genproto/googleapis/cloud/texttospeech/v1"
)

const (
	maxAudioBytes    = 5 * 1024 * 1024
	allowedExtension = ".wav"
	requiredRate     = 16000
)

type waveHeader struct {
	RiffTag       [4]byte
	FileSize      uint32
	WaveTag       [4]byte
	FmtTag        [4]byte
	FmtSize       uint32
	AudioFormat   uint16
	NumChannels   uint16
	SampleRate    uint32
	ByteRate      uint32
	BlockAlign    uint16
	BitsPerSample uint16
	DataTag       [4]byte
	DataSize      uint32
}

func parseWaveHeader(data []byte) (*waveHeader, error) {
	if len(data) < 44 {
		return nil, errors.New("invalid WAV header length")
	}
	var header waveHeader
	if err := binary.Read(bytes.NewReader(data), binary.LittleEndian, &header); err != nil {
		return nil, err
	}
	if string(header.RiffTag[:]) != "RIFF" || string(header.WaveTag[:]) != "WAVE" {
		return nil, errors.New("not a RIFF/WAVE file")
	}
	return &header, nil
}

// validateWave enforces the recording format the recognizer is configured for.
// Clients record at 16 kHz mono PCM, so no server-side transcoding is needed.
func validateWave(header *waveHeader) error {
	if header.AudioFormat != 1 || header.BitsPerSample != 16 {
		return errors.New("audio must be 16-bit PCM")
	}
	if header.NumChannels != 1 {
		return errors.New("audio must be mono")
	}
	if header.SampleRate != requiredRate {
		return fmt.Errorf("audio must be sampled at %d Hz, got %d", requiredRate, header.SampleRate)
	}
	return nil
}

// TranscribeHandler handles POST /voice/stt: a WAV upload in, its transcript
// out.
func TranscribeHandler(c *gin.Context) {
	language := c.DefaultPostForm("language", "en-US")

	file, header, err := c.Request.FormFile("audio")
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "audio file is required", err.Error())
		return
	}
	defer file.Close()

	if ext := strings.ToLower(filepath.Ext(header.Filename)); ext != allowedExtension {
		utils.JSONError(c, http.StatusBadRequest, "invalid file type",
			fmt.Sprintf("expected %s, got %s", allowedExtension, ext))
		return
	}

	audioData, err := io.ReadAll(io.LimitReader(file, maxAudioBytes))
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to read audio file", err.Error())
		return
	}

	wav, err := parseWaveHeader(audioData)
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid audio file", err.Error())
		return
	}
	if err := validateWave(wav); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "unsupported audio format", err.Error())
		return
	}

	ctx := c.Request.Context()
	client, err := speech.NewClient(ctx, option.WithCredentialsFile(config.AppConfig.GoogleServiceAccountFile))
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to initialize speech client", err.Error())
		return
	}
	defer client.Close()

	resp, err := client.Recognize(ctx, &speechpb.RecognizeRequest{
		Config: &speechpb.RecognitionConfig{
			Encoding:          speechpb.RecognitionConfig_LINEAR16,
			SampleRateHertz:   requiredRate,
			LanguageCode:      language,
			AudioChannelCount: 1,
		},
		Audio: &speechpb.RecognitionAudio{
			AudioSource: &speechpb.RecognitionAudio_Content{Content: audioData},
		},
	})
	if err != nil {
		utils.GetLogger().Error("speech recognition failed", zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "speech recognition failed", err.Error())
		return
	}

	var transcript strings.Builder
	for _, result := range resp.Results {
		for _, alt := range result.Alternatives {
			transcript.WriteString(alt.Transcript + " ")
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"transcription": strings.TrimSpace(transcript.String()),
	})
}

type synthesizeRequest struct {
	Text     string `json:"text" binding:"required"`
	Language string `json:"language"`
}

// SynthesizeHandler handles POST /voice/tts: text in, MP3 audio out.
func SynthesizeHandler(c *gin.Context) {
	var req synthesizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Missing 'text' in request body.", err.Error())
		return
	}
	if req.Language == "" {
		req.Language = "en-US"
	}

	ctx := c.Request.Context()
	client, err := texttospeech.NewClient(ctx, option.WithCredentialsFile(config.AppConfig.GoogleServiceAccountFile))
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to initialize synthesis client", err.Error())
		return
	}
	defer client.Close()

	resp, err := client.SynthesizeSpeech(ctx, &ttspb.SynthesizeSpeechRequest{
		Input: &ttspb.SynthesisInput{
			InputSource: &ttspb.SynthesisInput_Text{Text: req.Text},
		},
		Voice: &ttspb.VoiceSelectionParams{
			LanguageCode: req.Language,
			SsmlGender:   ttspb.SsmlVoiceGender_NEUTRAL,
		},
		AudioConfig: &ttspb.AudioConfig{
			AudioEncoding: ttspb.AudioEncoding_MP3,
		},
	})
	if err != nil {
		utils.GetLogger().Error("speech synthesis failed", zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "speech synthesis failed", err.Error())
		return
	}

	c.Data(http.StatusOK, "audio/mpeg", resp.AudioContent)
}
