package catalog

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/ulikunitz/xz"

	"github.com/peterkuimelis/deckbuilder/internal/card"
)

// Binary distribution format. All integers are little-endian with a fixed
// width; strings are a uint32 byte length followed by the bytes. The whole
// stream is xz compressed.
//
//	magic    [4]byte "YDC1"
//	count    uint32
//	cards    count × record
//	aliases  uint32 n, then n × (password uint32, id uint32)
//
// A record is name, password, description, archetype, limit u8, kind u8
// followed by the kind-specific block.

const (
	// DataFilename is the conventional name of the distributed catalog.
	DataFilename = "cards.bin.xz"

	maxStringLen = 1 << 20
)

var (
	magic = [4]byte{'Y', 'D', 'C', '1'}

	ErrBadMagic = errors.New("not a card catalog")
	ErrCorrupt  = errors.New("corrupt card catalog")
)

// Encode writes d to w in the compressed binary format.
func Encode(w io.Writer, d *Data) error {
	zw, err := xz.NewWriter(w)
	if err != nil {
		return fmt.Errorf("create xz writer: %w", err)
	}
	if _, err := zw.Write(marshal(d)); err != nil {
		return fmt.Errorf("write catalog: %w", err)
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("finish catalog: %w", err)
	}
	return nil
}

// Decode reads a catalog written by Encode.
func Decode(r io.Reader) (*Data, error) {
	zr, err := xz.NewReader(bufio.NewReader(r))
	if err != nil {
		return nil, fmt.Errorf("open xz stream: %w", err)
	}
	return unmarshal(bufio.NewReader(zr))
}

// LoadFile decodes the catalog stored at path.
func LoadFile(path string) (*Data, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	d, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("load catalog %s: %w", path, err)
	}
	return d, nil
}

// SaveFile encodes d into a new file at path.
func SaveFile(path string, d *Data) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := Encode(f, d); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// --- Encoding ---

func appendString(b []byte, s string) []byte {
	b = binary.LittleEndian.AppendUint32(b, uint32(len(s)))
	return append(b, s...)
}

func appendBool(b []byte, v bool) []byte {
	if v {
		return append(b, 1)
	}
	return append(b, 0)
}

func appendType(b []byte, t card.Type) []byte {
	b = append(b, byte(t.Kind))
	switch t.Kind {
	case card.KindMonster:
		m := t.Monster
		if m == nil {
			m = &card.Monster{}
		}
		b = append(b, byte(m.Race), byte(m.Attribute), byte(m.Effect))
		b = appendBool(b, m.Tuner)
		s := m.Stats
		b = appendBool(b, s.Link)
		b = binary.LittleEndian.AppendUint16(b, s.ATK)
		b = binary.LittleEndian.AppendUint16(b, s.DEF)
		b = append(b, s.Level, byte(s.MonsterType))
		b = appendBool(b, s.Pendulum)
		b = append(b, s.PendulumScale, s.LinkValue, byte(s.LinkMarkers))
	case card.KindSpell:
		b = append(b, byte(t.Spell))
	case card.KindTrap:
		b = append(b, byte(t.Trap))
	}
	return b
}

func marshal(d *Data) []byte {
	b := append([]byte(nil), magic[:]...)
	b = binary.LittleEndian.AppendUint32(b, uint32(len(d.cards)))
	for i := range d.cards {
		c := &d.cards[i]
		b = appendString(b, c.Name)
		b = binary.LittleEndian.AppendUint32(b, uint32(c.Password))
		b = appendString(b, c.Description)
		b = appendString(b, c.Archetype)
		b = append(b, byte(c.Limit))
		b = appendType(b, c.Type)
	}

	passwords := make([]card.Password, 0, len(d.passwords))
	for password := range d.passwords {
		passwords = append(passwords, password)
	}
	slices.Sort(passwords)

	b = binary.LittleEndian.AppendUint32(b, uint32(len(passwords)))
	for _, password := range passwords {
		b = binary.LittleEndian.AppendUint32(b, uint32(password))
		b = binary.LittleEndian.AppendUint32(b, uint32(d.passwords[password]))
	}
	return b
}

// --- Decoding ---

// reader keeps the first error and turns every later read into a no-op.
type reader struct {
	r   io.Reader
	buf [4]byte
	err error
}

func (r *reader) read(n int) []byte {
	if r.err != nil {
		return r.buf[:n]
	}
	if _, err := io.ReadFull(r.r, r.buf[:n]); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			err = fmt.Errorf("%w: unexpected end of data", ErrCorrupt)
		}
		r.err = err
	}
	return r.buf[:n]
}

func (r *reader) u8() uint8   { return r.read(1)[0] }
func (r *reader) u16() uint16 { return binary.LittleEndian.Uint16(r.read(2)) }
func (r *reader) u32() uint32 { return binary.LittleEndian.Uint32(r.read(4)) }
func (r *reader) bool() bool  { return r.u8() != 0 }

func (r *reader) string() string {
	n := r.u32()
	if r.err != nil {
		return ""
	}
	if n > maxStringLen {
		r.err = fmt.Errorf("%w: string of %d bytes", ErrCorrupt, n)
		return ""
	}
	s := make([]byte, n)
	if _, err := io.ReadFull(r.r, s); err != nil {
		r.err = fmt.Errorf("%w: truncated string", ErrCorrupt)
		return ""
	}
	return string(s)
}

func (r *reader) cardType() card.Type {
	t := card.Type{Kind: card.Kind(r.u8())}
	switch t.Kind {
	case card.KindMonster:
		m := &card.Monster{
			Race:      card.Race(r.u8()),
			Attribute: card.Attribute(r.u8()),
			Effect:    card.MonsterEffect(r.u8()),
			Tuner:     r.bool(),
		}
		m.Stats.Link = r.bool()
		m.Stats.ATK = r.u16()
		m.Stats.DEF = r.u16()
		m.Stats.Level = r.u8()
		m.Stats.MonsterType = card.MonsterType(r.u8())
		m.Stats.Pendulum = r.bool()
		m.Stats.PendulumScale = r.u8()
		m.Stats.LinkValue = r.u8()
		m.Stats.LinkMarkers = card.LinkMarkers(r.u8())
		t.Monster = m
	case card.KindSpell:
		t.Spell = card.SpellType(r.u8())
	case card.KindTrap:
		t.Trap = card.TrapType(r.u8())
	default:
		if r.err == nil {
			r.err = fmt.Errorf("%w: unknown card kind %d", ErrCorrupt, t.Kind)
		}
	}
	return t
}

func unmarshal(src io.Reader) (*Data, error) {
	r := &reader{r: src}

	var head [4]byte
	copy(head[:], r.read(4))
	if r.err != nil {
		return nil, r.err
	}
	if head != magic {
		return nil, ErrBadMagic
	}

	count := r.u32()
	if r.err != nil {
		return nil, r.err
	}

	d := &Data{
		cards:     make([]card.Card, 0, min(count, 1<<16)),
		passwords: make(map[card.Password]card.ID),
	}
	for i := uint32(0); i < count && r.err == nil; i++ {
		c := card.Card{
			Name:        r.string(),
			Password:    card.Password(r.u32()),
			Description: r.string(),
			Archetype:   r.string(),
			Limit:       card.Limit(r.u8()),
		}
		c.Type = r.cardType()
		d.cards = append(d.cards, c)
	}

	aliases := r.u32()
	for i := uint32(0); i < aliases && r.err == nil; i++ {
		password := card.Password(r.u32())
		id := card.ID(r.u32())
		if r.err != nil {
			break
		}
		if uint64(id) >= uint64(len(d.cards)) {
			return nil, fmt.Errorf("%w: password %d points at missing card %d", ErrCorrupt, password, id)
		}
		d.passwords[password] = id
	}
	if r.err != nil {
		return nil, r.err
	}

	for i := range d.cards {
		if id, ok := d.passwords[d.cards[i].Password]; !ok || id != card.ID(i) {
			return nil, fmt.Errorf("%w: primary password of %q does not resolve", ErrCorrupt, d.cards[i].Name)
		}
	}
	d.indexAliases()
	return d, nil
}
