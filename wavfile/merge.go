package wavfile

import (
	"bytes"
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/youpy/go-riff"
)

var (
	fileTypeWave = []byte("WAVE")

	// taken from the metadata file
	metaChunks = [][]byte{[]byte("bext"), []byte("iXML"), []byte("PAD ")}
	// taken from the audio file
	dataChunks = [][]byte{[]byte("fmt "), []byte("data")}
)

func readRIFF(filename string) (*os.File, *riff.RIFFChunk, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, nil, errors.Wrap(err, "cannot open input")
	}
	chunk, err := riff.NewReader(f).Read()
	if err != nil {
		f.Close()
		return nil, nil, errors.Wrapf(err, "%s: cannot read RIFF chunks", filename)
	}
	if !bytes.Equal(chunk.FileType, fileTypeWave) {
		f.Close()
		return nil, nil, errors.Errorf("%s: file type %q, WAVE expected", filename, chunk.FileType)
	}
	return f, chunk, nil
}

// pick returns the chunks with the given IDs, in file order.
func pick(chunks []*riff.Chunk, ids [][]byte) []*riff.Chunk {
	var result []*riff.Chunk
	for _, c := range chunks {
		for _, id := range ids {
			if bytes.Equal(c.ChunkID, id) {
				result = append(result, c)
				break
			}
		}
	}
	return result
}

// Merge writes a WAVE file with the bext, iXML and PAD chunks of metaFile followed by
// the fmt and data chunks of dataFile.
func Merge(metaFile, dataFile, outFile string, force bool) error {
	mf, meta, err := readRIFF(metaFile)
	if err != nil {
		return err
	}
	defer mf.Close()
	df, data, err := readRIFF(dataFile)
	if err != nil {
		return err
	}
	defer df.Close()

	chunks := pick(meta.Chunks, metaChunks)
	audio := pick(data.Chunks, dataChunks)
	if len(audio) != len(dataChunks) {
		return errors.Errorf("%s: fmt or data chunk missing", dataFile)
	}
	chunks = append(chunks, audio...)

	fileSize := uint32(len(fileTypeWave))
	for _, c := range chunks {
		fileSize += 8 + c.ChunkSize + c.ChunkSize&1
	}

	out, err := Create(outFile, force)
	if err != nil {
		return err
	}
	defer out.Close()

	w := riff.NewWriter(out, fileTypeWave, fileSize)
	for _, c := range chunks {
		var copyErr error
		err := w.WriteChunk(c.ChunkID, c.ChunkSize, func(w io.Writer) {
			_, copyErr = io.CopyN(w, c, int64(c.ChunkSize))
			if copyErr == nil && c.ChunkSize&1 == 1 {
				_, copyErr = w.Write([]byte{0})
			}
		})
		if err != nil {
			return errors.Wrapf(err, "cannot write %q chunk", c.ChunkID)
		}
		if copyErr != nil {
			return errors.Wrapf(copyErr, "cannot copy %q chunk", c.ChunkID)
		}
	}
	return errors.Wrap(out.Close(), "cannot close output")
}
