package main

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/wdm0006/homeprice/pkg/house"
)

const menuText = `
Hi there, you have the following options:
1. Add a new house to your list
2. Delete a house from your list
3. Print the information for a house
4. Estimate the price of a house
5. Return a list of all houses
6. Quit the program
You can always type in "BACK" to go back to this menu.
`

// errBack is returned by ask when the user types BACK.
var errBack = errors.New("back to menu")

type pricer interface {
	EstimateHouse(h *house.House) (float64, error)
	Histogram(value float64, bins int) (string, error)
}

// Menu is the interactive house registry session.
type Menu struct {
	in      *bufio.Scanner
	out     io.Writer
	store   *house.Store
	pricer  pricer
	infoDir string
}

func NewMenu(in io.Reader, out io.Writer, store *house.Store, p pricer, infoDir string) *Menu {
	if infoDir == "" {
		infoDir = "."
	}
	return &Menu{in: bufio.NewScanner(in), out: out, store: store, pricer: p, infoDir: infoDir}
}

func (m *Menu) ask(prompt string) (string, error) {
	fmt.Fprint(m.out, prompt)
	if !m.in.Scan() {
		if err := m.in.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	line := strings.TrimSpace(m.in.Text())
	if line == "BACK" {
		return "", errBack
	}
	return line, nil
}

func (m *Menu) askFloat(prompt string) (float64, error) {
	s, err := m.ask(prompt)
	if err != nil {
		return 0, err
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, errInvalidNumber
	}
	return v, nil
}

var errInvalidNumber = errors.New("invalid number")

// Run shows the menu until the user quits or the input ends.
func (m *Menu) Run() error {
	actions := map[int]func() error{
		1: m.add,
		2: m.delete,
		3: m.info,
		4: m.estimate,
		5: m.list,
	}
	for {
		fmt.Fprint(m.out, menuText)
		s, err := m.ask("Enter a number between 1 and 6: ")
		if err == nil {
			var n int
			if n, err = strconv.Atoi(s); err != nil {
				err = errInvalidNumber
			} else if n == 6 {
				fmt.Fprintln(m.out, "You have quit the program.")
				return nil
			} else if act, ok := actions[n]; ok {
				err = act()
			} else {
				fmt.Fprintln(m.out, "Please enter a valid number between 1 and 6.")
			}
		}
		switch {
		case err == nil, errors.Is(err, errBack):
		case errors.Is(err, io.EOF):
			return nil
		case errors.Is(err, errInvalidNumber):
			fmt.Fprintln(m.out, "Invalid input! Please enter a number.")
		default:
			fmt.Fprintln(m.out, "Error:", err)
		}
	}
}

func (m *Menu) add() error {
	fmt.Fprintln(m.out, "Great, let's start!\nI am now going to ask you some basic questions about your house: ")
	address, err := m.ask("Enter the address of the house: ")
	if err != nil {
		return err
	}
	h := &house.House{Address: address}
	fields := []struct {
		prompt string
		dst    *float64
	}{
		{"Enter the longitude of the house: ", &h.Longitude},
		{"Enter the latitude of the house: ", &h.Latitude},
		{"Enter the age of the house: ", &h.HouseAge},
		{"Enter the number of rooms: ", &h.Rooms},
		{"Enter the number of bedrooms: ", &h.Bedrooms},
		{"Enter the number of people who live in the house: ", &h.NumberOfPeople},
		{"Enter the monthly household income in k USD: ", &h.MonthlyIncome},
	}
	for _, fd := range fields {
		if *fd.dst, err = m.askFloat(fd.prompt); err != nil {
			return err
		}
	}
	if err := m.store.Add(h); err != nil {
		return err
	}
	fmt.Fprintln(m.out, "Great, now we have created a new house!")
	return nil
}

func (m *Menu) delete() error {
	address, err := m.ask("Enter the address of the house to delete: ")
	if err != nil {
		return err
	}
	if m.store.Delete(address) {
		fmt.Fprintf(m.out, "House at %s has been deleted.\n", address)
	} else {
		fmt.Fprintln(m.out, "House not found.")
	}
	return nil
}

func (m *Menu) lookup() (*house.House, error) {
	address, err := m.ask("Enter the address of the house: ")
	if err != nil {
		return nil, err
	}
	h, ok := m.store.Get(address)
	if !ok {
		fmt.Fprintln(m.out, "House not found for this address.")
	}
	return h, nil
}

func (m *Menu) info() error {
	where, err := m.ask("Do you want the information to be printed in here or printed to a text file? Write HERE or TEXT: ")
	if err != nil {
		return err
	}
	where = strings.ToUpper(where)
	if where != "HERE" && where != "TEXT" {
		fmt.Fprintln(m.out, "Invalid input.")
		return nil
	}
	h, err := m.lookup()
	if err != nil || h == nil {
		return err
	}
	if where == "HERE" {
		return h.PrintInfo(m.out)
	}
	p, err := h.WriteInfoFile(m.infoDir)
	if err != nil {
		return err
	}
	fmt.Fprintf(m.out, "A file with the data has been created: %s\n", p)
	return nil
}

func (m *Menu) estimate() error {
	h, err := m.lookup()
	if err != nil || h == nil {
		return err
	}
	if m.pricer == nil {
		return errors.New("no price model loaded; set model.dataset in the config")
	}
	price, err := m.pricer.EstimateHouse(h)
	if err != nil {
		return err
	}
	fmt.Fprintf(m.out, "Estimated house price: %.2f\n", price)
	chart, err := m.pricer.Histogram(price, 30)
	if err != nil {
		return err
	}
	fmt.Fprintln(m.out, chart)
	return nil
}

func (m *Menu) list() error {
	m.store.PrintAddresses(m.out)
	return nil
}
