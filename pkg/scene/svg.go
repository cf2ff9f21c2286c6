package scene

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// RenderSVG serializes the subtree rooted at n, including any attached
// animations as SMIL <animate> children.
func RenderSVG(n *Node) []byte {
	var buf bytes.Buffer
	writeNode(&buf, n, 0)
	return buf.Bytes()
}

// WriteSVG writes the serialized subtree to w.
func WriteSVG(w io.Writer, n *Node) error {
	_, err := w.Write(RenderSVG(n))
	return err
}

func writeNode(buf *bytes.Buffer, n *Node, depth int) {
	indent := strings.Repeat("  ", depth)
	fmt.Fprintf(buf, "%s<%s", indent, n.Tag)
	for _, a := range n.attrs {
		fmt.Fprintf(buf, ` %s="%s"`, a.Name, EscapeXML(a.Value))
	}

	if len(n.children) == 0 && len(n.anims) == 0 {
		if n.Text == "" {
			buf.WriteString("/>\n")
			return
		}
		fmt.Fprintf(buf, ">%s</%s>\n", EscapeXML(n.Text), n.Tag)
		return
	}

	buf.WriteString(">")
	if n.Text != "" {
		buf.WriteString(EscapeXML(n.Text))
	}
	buf.WriteString("\n")
	for _, a := range n.anims {
		writeAnimation(buf, a, depth+1)
	}
	for _, c := range n.children {
		writeNode(buf, c, depth+1)
	}
	fmt.Fprintf(buf, "%s</%s>\n", indent, n.Tag)
}

func writeAnimation(buf *bytes.Buffer, a Animation, depth int) {
	fmt.Fprintf(buf, `%s<animate attributeName="%s" from="%s" to="%s" dur="%ss" fill="freeze"`,
		strings.Repeat("  ", depth), a.Attr, formatFloat(a.From), formatFloat(a.To),
		strconv.FormatFloat(a.Duration.Seconds(), 'f', -1, 64))
	if a.Linear() {
		buf.WriteString(` calcMode="linear"/>` + "\n")
		return
	}
	s := a.Spline
	fmt.Fprintf(buf, ` calcMode="spline" keyTimes="0;1" keySplines="%s %s %s %s"/>`+"\n",
		formatFloat(s[0]), formatFloat(s[1]), formatFloat(s[2]), formatFloat(s[3]))
}

// EscapeXML escapes s for use in attribute values and character data.
func EscapeXML(s string) string {
	var buf bytes.Buffer
	_ = xml.EscapeText(&buf, []byte(s))
	return buf.String()
}
