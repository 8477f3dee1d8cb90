package commands

import (
	"fmt"
	"io"

	"github.com/GriffinCanCode/slackwire/internal/codec"
)

// printValue writes the encoded wire form of v as one JSON line
func printValue(w io.Writer, v codec.Value) error {
	tree, err := client.Registry().Encode(v)
	if err != nil {
		return err
	}
	return printTree(w, tree)
}

// printList writes items as one JSON array
func printList[T codec.Value](w io.Writer, items []T) error {
	tree, err := codec.EncodeList(client.Registry().Context(), items)
	if err != nil {
		return err
	}
	return printTree(w, tree)
}

func printTree(w io.Writer, tree any) error {
	data, err := codec.Marshal(tree)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}
