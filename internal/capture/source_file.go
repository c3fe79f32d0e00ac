package capture

import (
	"fmt"
	"io"
	"os"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
	"github.com/google/gopacket/pcap"
	"github.com/google/gopacket/pcapgo"
)

// FileSource replays a pcap or pcapng file as if it were a live capture.
// The interface name passed to Open is ignored.
type FileSource struct {
	Path string
}

type linkTypeReader interface {
	gopacket.PacketDataSource
	LinkType() layers.LinkType
}

type fileStream struct {
	file   *os.File
	source *gopacket.PacketSource
}

func (s *fileStream) Packets() chan gopacket.Packet { return s.source.Packets() }
func (s *fileStream) Close()                        { s.file.Close() }

// Open reads the file, trying pcapng first and falling back to classic pcap.
func (f FileSource) Open(_ string, filter string) (Stream, error) {
	file, err := os.Open(f.Path)
	if err != nil {
		return nil, fmt.Errorf("error opening capture file: %w", err)
	}

	reader, err := openReader(file)
	if err != nil {
		file.Close()
		return nil, err
	}

	var data gopacket.PacketDataSource = reader
	if filter != "" {
		bpf, err := pcap.NewBPF(reader.LinkType(), DefaultSnapLen, filter)
		if err != nil {
			file.Close()
			return nil, fmt.Errorf("invalid capture filter %q: %w", filter, err)
		}
		data = &bpfReader{src: reader, bpf: bpf}
	}

	return &fileStream{
		file:   file,
		source: gopacket.NewPacketSource(data, reader.LinkType()),
	}, nil
}

func openReader(file *os.File) (linkTypeReader, error) {
	ngReader, err := pcapgo.NewNgReader(file, pcapgo.DefaultNgReaderOptions)
	if err == nil {
		return ngReader, nil
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("error resetting file position: %w", err)
	}
	reader, err := pcapgo.NewReader(file)
	if err != nil {
		return nil, fmt.Errorf("error creating pcap reader: %w", err)
	}
	return reader, nil
}

// bpfReader drops packets the compiled filter rejects.
type bpfReader struct {
	src gopacket.PacketDataSource
	bpf *pcap.BPF
}

func (r *bpfReader) ReadPacketData() ([]byte, gopacket.CaptureInfo, error) {
	for {
		data, ci, err := r.src.ReadPacketData()
		if err != nil {
			return nil, ci, err
		}
		if r.bpf.Matches(ci, data) {
			return data, ci, nil
		}
	}
}
