// slotinspect prints the saved progression of a slot and can flag it
// for a reset on its next load.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/lawnchairsociety/staminaxp/internal/buff"
	"github.com/lawnchairsociety/staminaxp/internal/config"
	"github.com/lawnchairsociety/staminaxp/internal/leveling"
	"github.com/lawnchairsociety/staminaxp/internal/store"
)

func main() {
	rt, err := config.LoadRuntime()
	if err != nil {
		fmt.Println("Error:", err)
		os.Exit(1)
	}

	slotID := flag.String("slot", "", "Save slot to inspect (empty lists all slots)")
	configFile := flag.String("config", rt.ProgressionPath, "Path to progression config YAML file")
	requestReset := flag.Bool("request-reset", false, "Reset progression the next time the slot is loaded")
	flag.Parse()

	cfg, err := config.LoadConfig(*configFile)
	if err != nil {
		fmt.Println("Error:", err)
		os.Exit(1)
	}

	st, err := store.Open(rt)
	if err != nil {
		fmt.Println("Error:", err)
		os.Exit(1)
	}
	defer st.Close()

	ctx := context.Background()

	if *slotID == "" {
		slots, err := st.Slots(ctx)
		if err != nil {
			fmt.Println("Error:", err)
			os.Exit(1)
		}
		fmt.Printf("%d slots in %s store\n", len(slots), rt.Store)
		for _, s := range slots {
			fmt.Println("  -", s)
		}
		return
	}

	state, err := st.Load(ctx, *slotID)
	if errors.Is(err, store.ErrNotFound) {
		fmt.Printf("Slot %s has no progression saved yet\n", *slotID)
		return
	}
	if err != nil {
		fmt.Println("Error:", err)
		os.Exit(1)
	}

	fmt.Printf("Slot %s\n", *slotID)
	fmt.Printf("  level:           %d / %d\n", state.CurrentLevel, cfg.MaxLevel)
	fmt.Printf("  exp:             %d (next level at %d, %d to go)\n",
		state.CurrentExp, state.ExpToNextLevel, leveling.ExpRemaining(state, cfg))
	fmt.Printf("  stamina bonus:   %+d (base %d, levels %d)\n",
		buff.ComputeBonus(state), state.BaseStaminaBonus, state.CurrentLevelStaminaBonus)
	fmt.Printf("  base stamina:    %d\n", state.OriginalMaxStamina)
	fmt.Printf("  nightly stamina: %d\n", state.NightlyStamina)
	fmt.Printf("  consistent:      %v\n", state.Consistent())
	fmt.Printf("  reset pending:   %v\n", state.ClearModEffects)

	if *requestReset {
		state.ClearModEffects = true
		if err := st.Save(ctx, *slotID, state); err != nil {
			fmt.Println("Error:", err)
			os.Exit(1)
		}
		fmt.Println("Reset requested; progression clears on next load")
	}
}
