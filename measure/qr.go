package measure

import (
	"fmt"

	"github.com/wudi/docflow/document"
)

// Byte-mode data capacity per version at error correction level L.
var qrCapacityL = []int{
	17, 32, 53, 78, 106, 134, 154, 192, 230, 271,
	321, 367, 425, 458, 520, 586, 644, 718, 792, 858,
	929, 1003, 1091, 1171, 1273, 1367, 1465, 1528, 1628, 1732,
	1840, 1952, 2068, 2188, 2303, 2431, 2563, 2699, 2809, 2953,
}

// Approximate capacity ratio of each error correction level relative
// to level L.
var qrECCRatio = map[string]float64{"L": 1, "M": 0.78, "Q": 0.57, "H": 0.43}

// measureQR sizes the QR block: the version is either declared or the
// smallest one whose byte capacity holds the text, the module count
// follows from the version, and the edge length is the declared fit or
// four points per module. Producing the module matrix is the rendering
// backend's concern.
func (m *Measurer) measureQR(node *document.Node, styles *document.StyleStack) error {
	q := node.QR
	if q == nil {
		return fmt.Errorf("measure: qr node without a spec: %s", node.Snapshot())
	}
	if q.ECCLevel == "" {
		q.ECCLevel = "L"
	}
	ratio, ok := qrECCRatio[q.ECCLevel]
	if !ok {
		return fmt.Errorf("measure: qr: unknown error correction level %q", q.ECCLevel)
	}

	if q.Version <= 0 {
		need := len(q.Text)
		for v, cap := range qrCapacityL {
			if int(float64(cap)*ratio) >= need {
				q.Version = v + 1
				break
			}
		}
		if q.Version <= 0 {
			return fmt.Errorf("measure: qr: text of %d bytes exceeds capacity at level %s", need, q.ECCLevel)
		}
	}
	if q.Version > len(qrCapacityL) {
		return fmt.Errorf("measure: qr: version %d out of range", q.Version)
	}
	q.ModuleCount = 17 + 4*q.Version

	edge := q.Fit
	if edge <= 0 {
		edge = float64(q.ModuleCount) * 4
	}
	node.Width = edge
	node.Height = edge
	node.MinWidth = edge
	node.MaxWidth = edge
	node.Alignment = styles.Alignment()
	return nil
}
