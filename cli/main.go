// Command cli is an interactive terminal front end for the tiffinbox API.
// It drives the same client, cart, and checkout packages the mobile app
// wraps, which makes it handy for poking at a dev server by hand.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"tiffinbox/internal/api"
	"tiffinbox/internal/auth"
	"tiffinbox/internal/cart"
	"tiffinbox/internal/checkout"
	"tiffinbox/internal/config"
	"tiffinbox/internal/models"
	"tiffinbox/internal/monitoring"
	"tiffinbox/internal/push"
	"tiffinbox/internal/tracking"
)

var configFile = flag.String("config", "configs/config.yaml", "Path to configuration file")

var paymentMethods = []string{
	"UPI Payment",
	"Credit-Debit Card",
	"Net Banking",
	"Cash on Delivery",
}

type app struct {
	in       *bufio.Reader
	client   *api.Client
	auth     *auth.Store
	cart     *cart.Store
	checkout *checkout.Coordinator
}

func main() {
	flag.Parse()

	cfg, err := config.Load(*configFile)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	metrics := monitoring.NewMetrics()
	client := api.NewClient(cfg.API.BaseURL, api.WithTimeout(cfg.Timeout()), api.WithMetrics(metrics))
	session := auth.NewStore(client, auth.NewMemoryKeyring(), client.SetToken)
	session.CheckLoginStatus()

	basket := cart.NewStore(cfg.Pricing).WithMetrics(metrics)
	a := &app{
		in:       bufio.NewReader(os.Stdin),
		client:   client,
		auth:     session,
		cart:     basket,
		checkout: checkout.NewCoordinator(basket, client, session, cfg.Pricing).WithMetrics(metrics),
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	listener := push.NewListener(cfg.API.BaseURL, func(ev push.StatusEvent) {
		fmt.Printf("\n[update] order %s is now %s\n> ", ev.OrderID, ev.Status)
	})
	go listener.Run(ctx)

	fmt.Println("tiffinbox — daily meals, delivered")
	a.loop(ctx)
}

func (a *app) loop(ctx context.Context) {
	for {
		fmt.Println()
		fmt.Println("1) browse packages  2) browse singles  3) cart  4) checkout")
		fmt.Println("5) my orders        6) track order     7) account  q) quit")
		switch a.prompt("> ") {
		case "1":
			a.browsePackages(ctx)
		case "2":
			a.browseSingles(ctx)
		case "3":
			a.showCart()
		case "4":
			a.doCheckout(ctx)
		case "5":
			a.myOrders(ctx)
		case "6":
			a.trackOrder(ctx)
		case "7":
			a.account(ctx)
		case "q", "quit", "exit":
			return
		}
	}
}

func (a *app) prompt(label string) string {
	fmt.Print(label)
	line, err := a.in.ReadString('\n')
	if err != nil {
		return "q"
	}
	return strings.TrimSpace(line)
}

func (a *app) promptInt(label string, fallback int) int {
	raw := a.prompt(label)
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return n
}

func (a *app) browsePackages(ctx context.Context) {
	day := a.prompt("day (blank for all): ")
	var (
		meals []models.PackageMeal
		err   error
	)
	if day == "" {
		meals, err = a.client.GetPackages(ctx)
	} else {
		mealType := a.prompt("meal type (Lunch/Dinner, blank for both): ")
		meals, err = a.client.GetPackagesByDay(ctx, day, mealType)
	}
	if err != nil {
		fmt.Println("error:", api.UserMessage(err))
		return
	}
	if len(meals) == 0 {
		fmt.Println("nothing on the menu for that day")
		return
	}
	for i, m := range meals {
		fmt.Printf("%2d) %-28s ₹%.0f  %s %s\n", i+1, m.Name, m.Price, m.Day, m.MealType)
	}
	pick := a.promptInt("add which? (0 to skip): ", 0)
	if pick < 1 || pick > len(meals) {
		return
	}
	meal := meals[pick-1]
	qty := a.promptInt("quantity: ", 1)
	if a.prompt("(a)dd to cart or (b)ook now: ") == "b" {
		a.bookNow(ctx, meal.LineItem(qty), qty, meal.Day)
		return
	}
	a.cart.Add(meal.LineItem(qty))
	fmt.Printf("added — %d item(s) in cart\n", a.cart.ItemCount())
}

// bookNow submits a single item directly, bypassing the cart. Packages
// carry a weekday, so delivery lands on that day's next occurrence.
func (a *app) bookNow(ctx context.Context, item models.LineItem, qty int, day string) {
	if !a.auth.LoggedIn() {
		fmt.Println("log in first (account menu)")
		return
	}
	req := checkout.Request{
		PaymentMethod: paymentMethods[3],
		Address:       a.prompt("delivery address (blank to use profile): "),
	}
	if day != "" {
		slot := checkout.DeliverySlot(day, time.Now())
		req.Delivery = &slot
	}
	id, err := a.checkout.SubmitBooking(ctx, checkout.Booking{Item: item, Quantity: qty}, req)
	if err != nil {
		fmt.Println("booking failed:", api.UserMessage(err))
		return
	}
	fmt.Println("order placed:", id)
}

func (a *app) browseSingles(ctx context.Context) {
	categories, err := a.client.GetSingleCategories(ctx)
	if err != nil {
		fmt.Println("error:", api.UserMessage(err))
		return
	}
	fmt.Println("categories:", strings.Join(categories, ", "))

	category := a.prompt("category (blank for all): ")
	var meals []models.SingleMeal
	if category == "" {
		meals, err = a.client.GetSingles(ctx)
	} else {
		meals, err = a.client.GetSinglesByCategory(ctx, category)
	}
	if err != nil {
		fmt.Println("error:", api.UserMessage(err))
		return
	}
	for i, m := range meals {
		fmt.Printf("%2d) %-28s ₹%.0f  %s\n", i+1, m.Name, m.Price, m.Category)
	}
	pick := a.promptInt("add which? (0 to skip): ", 0)
	if pick < 1 || pick > len(meals) {
		return
	}
	qty := a.promptInt("quantity: ", 1)
	a.cart.Add(meals[pick-1].LineItem(qty))
	fmt.Printf("added — %d item(s) in cart\n", a.cart.ItemCount())
}

func (a *app) showCart() {
	lines := a.cart.Lines()
	if len(lines) == 0 {
		fmt.Println("cart is empty")
		return
	}
	for i, l := range lines {
		fmt.Printf("%2d) %-28s ₹%.0f x %d = ₹%.0f\n", i+1, l.Name, l.Price, l.Quantity, l.LineTotal())
	}
	b := a.cart.Breakdown()
	fmt.Printf("    subtotal ₹%.0f  delivery ₹%.0f  discount -₹%.0f  total ₹%.0f\n",
		b.Subtotal, b.DeliveryFee, b.Discount, b.Total)

	cmd := a.prompt("+N more, -N fewer, xN remove, enter to go back: ")
	if len(cmd) < 2 {
		return
	}
	n, err := strconv.Atoi(strings.TrimSpace(cmd[1:]))
	if err != nil || n < 1 || n > len(lines) {
		return
	}
	key := lines[n-1].Key()
	switch cmd[0] {
	case '+':
		a.cart.Increment(key.ID, key.Type)
	case '-':
		a.cart.Decrement(key.ID, key.Type)
	case 'x':
		a.cart.Remove(key.ID, key.Type)
	}
	a.showCart()
}

func (a *app) doCheckout(ctx context.Context) {
	if !a.auth.LoggedIn() {
		fmt.Println("log in first (account menu)")
		return
	}
	if a.cart.Len() == 0 {
		fmt.Println("cart is empty")
		return
	}

	for i, m := range paymentMethods {
		fmt.Printf("%d) %s\n", i+1, m)
	}
	pick := a.promptInt("payment method: ", 4)
	if pick < 1 || pick > len(paymentMethods) {
		pick = 4
	}

	req := checkout.Request{
		PaymentMethod: paymentMethods[pick-1],
		Notes:         a.prompt("notes (optional): "),
		Address:       a.prompt("delivery address (blank to use profile): "),
	}

	id, err := a.checkout.SubmitCart(ctx, req)
	if err != nil {
		fmt.Println("order failed:", api.UserMessage(err))
		return
	}
	fmt.Println("order placed:", id)
}

func (a *app) myOrders(ctx context.Context) {
	user := a.auth.User()
	if user == nil {
		fmt.Println("log in first (account menu)")
		return
	}
	orders, err := a.client.GetMyOrders(ctx, user.Phone)
	if err != nil {
		fmt.Println("error:", api.UserMessage(err))
		return
	}
	if len(orders) == 0 {
		fmt.Println("no orders yet")
		return
	}
	for _, o := range orders {
		fmt.Printf("%s  ₹%.0f  %s  %s\n", o.ID, o.TotalAmount, o.Status, o.DeliveryInfo.Date)
	}
}

func (a *app) trackOrder(ctx context.Context) {
	id := a.prompt("order id: ")
	if id == "" {
		return
	}
	order, err := a.client.GetOrder(ctx, id)
	if err != nil {
		fmt.Println("error:", api.UserMessage(err))
		return
	}
	renderProgress(order)
}

func renderProgress(order *models.Order) {
	proj := tracking.Project(order.Status)
	if proj.Cancelled {
		fmt.Println("order cancelled")
		return
	}
	for _, step := range proj.Steps {
		mark := " "
		switch step.State {
		case tracking.StepComplete:
			mark = "x"
		case tracking.StepCurrent:
			mark = ">"
		}
		fmt.Printf("  [%s] %s\n", mark, step.Status)
	}
	if order.Rider != nil {
		fmt.Printf("  rider: %s (%s)\n", order.Rider.Name, order.Rider.Phone)
	}
}

func (a *app) account(ctx context.Context) {
	if user := a.auth.User(); user != nil {
		fmt.Printf("logged in as %s (%s)\n", user.Name, user.Phone)
		if a.prompt("log out? (y/N): ") == "y" {
			a.auth.Logout()
			fmt.Println("logged out")
		}
		return
	}

	switch a.prompt("1) log in  2) sign up: ") {
	case "1":
		phone := a.prompt("phone: ")
		password := a.prompt("password: ")
		if err := a.auth.Login(ctx, phone, password); err != nil {
			fmt.Println("login failed:", api.UserMessage(err))
			return
		}
		fmt.Println("welcome back,", a.auth.User().Name)
	case "2":
		req := api.RegisterRequest{
			Name:     a.prompt("name: "),
			Phone:    a.prompt("phone: "),
			Email:    a.prompt("email (optional): "),
			Password: a.prompt("password: "),
		}
		if err := a.auth.Register(ctx, req); err != nil {
			fmt.Println("signup failed:", api.UserMessage(err))
			return
		}
		fmt.Println("account created — log in to continue")
	}
}
